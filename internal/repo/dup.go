package repo

import "strings"

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
