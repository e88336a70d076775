package repository

import "regexp"

// regexEscape quotes user input before it is folded into a $regex filter.
func regexEscape(s string) string {
	return regexp.QuoteMeta(s)
}
