package validation

import (
	"regexp"
)

// Domain validation limits
const (
	ClickNameMinLength   = 3
	ClickNameMaxLength   = 50
	DescriptionMaxLength = 500

	ScheduleDayMin = 1
	ScheduleDayMax = 31

	UsernameMinLength = 3
	UsernameMaxLength = 30

	BioMaxLength         = 500
	DisplayNameMaxLength = 100
	LocationMaxLength    = 100

	PasswordMinLength = 8
)

// Validation rule patterns
var (
	// EmailPattern matches a basic email address
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// UsernamePattern matches lowercase letters, digits and underscores
	UsernamePattern = `^[a-z0-9_]+$`

	// TimeOfDayPattern matches a 24h HH:MM clock time
	TimeOfDayPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$`

	// SocialHandlePattern matches a bare social media handle
	SocialHandlePattern = `^[A-Za-z0-9_.]{1,30}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email        *regexp.Regexp
	Username     *regexp.Regexp
	TimeOfDay    *regexp.Regexp
	SocialHandle *regexp.Regexp
}{
	Email:        regexp.MustCompile(EmailPattern),
	Username:     regexp.MustCompile(UsernamePattern),
	TimeOfDay:    regexp.MustCompile(TimeOfDayPattern),
	SocialHandle: regexp.MustCompile(SocialHandlePattern),
}
