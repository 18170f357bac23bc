package validators

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrNameEmpty      = errors.New("no name provided")
	ErrNameTooLong    = errors.New("name is too long")
	ErrTitleEmpty     = errors.New("no title provided")
	ErrTitleTooLong   = errors.New("title is too long")
	ErrMessageEmpty   = errors.New("no message provided")
	ErrMessageTooLong = errors.New("message is too long")
)

const (
	maxNameLen    = 100
	maxTitleLen   = 200
	maxMessageLen = 5000
)

func NameValidator(n string) error {
	return lengthCheck(n, maxNameLen, ErrNameEmpty, ErrNameTooLong)
}

func TitleValidator(t string) error {
	return lengthCheck(t, maxTitleLen, ErrTitleEmpty, ErrTitleTooLong)
}

func MessageValidator(m string) error {
	return lengthCheck(m, maxMessageLen, ErrMessageEmpty, ErrMessageTooLong)
}

func lengthCheck(s string, max int, empty, long error) error {
	if strings.TrimSpace(s) == "" {
		return empty
	}

	if utf8.RuneCountInString(s) > max {
		return long
	}

	return nil
}
