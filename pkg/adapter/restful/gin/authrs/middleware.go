// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package authrs

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/model"
)

const sessionKey = "carweb.session"

// OptionalAuth returns a middleware which verifies the session token
// of each request (if any) and keeps the recognized session in the
// gin context, so it can be obtained by SessionOf. The token is taken
// from the session cookie or a bearer Authorization header. Requests
// without a valid token are passed on anonymously, leaving the
// authentication requirements to the use cases.
func OptionalAuth(t Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token != "" {
			s, err := t.Verify(token)
			if err != nil {
				log.Debug(c, "ignoring session token", log.Err("err", err))
			} else {
				c.Set(sessionKey, s)
			}
		}
		c.Next()
	}
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) &&
		strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// SessionOf returns the session which was recognized by OptionalAuth
// or nil for anonymous requests.
func SessionOf(c *gin.Context) *model.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*model.Session)
	return s
}
