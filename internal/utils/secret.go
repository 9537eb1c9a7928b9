// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package utils

import (
	"net/url"
	"strings"
)

// SecretKey masks the trailing half (rounded up) of key with '*'.
// Keys of length 0 or 1 are returned unchanged.
func SecretKey(key string) string {
	if len(key) <= 1 {
		return key
	}
	trim := (len(key) + 1) / 2
	return key[:len(key)-trim] + strings.Repeat("*", trim)
}

// SecretURL replaces userinfo credentials in rawURL with "$$$". An
// unparseable URL yields "".
func SecretURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.User != nil {
		if _, set := u.User.Password(); set {
			u.User = url.UserPassword(u.User.Username(), "$$$")
		} else {
			u.User = url.User("$$$")
		}
	}
	return u.String()
}
