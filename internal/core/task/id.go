package task

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultIDPrefix is the label prefix used when none is configured.
const DefaultIDPrefix = "DEV"

// SequenceStart is the counter value of an empty board; the first task is seq 101.
const SequenceStart = 100

// GenerateTaskID creates a task label like DEV-101 from a counter value.
// The number is zero padded to three digits and grows past 999 unchanged.
func GenerateTaskID(prefix string, seq int64) string {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// ParseTaskSeq extracts the counter value from a label such as DEV-142.
// ok is false when the label has no numeric suffix.
func ParseTaskSeq(taskID string) (seq int64, ok bool) {
	i := strings.LastIndex(taskID, "-")
	if i < 0 || i == len(taskID)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(taskID[i+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
