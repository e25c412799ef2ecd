// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"math"
	"net/url"
	"strings"
)

// QueryParam is the URL query parameter carrying a session token.
const QueryParam = "q"

// Encode serializes the session to a URL-safe token: unpadded URL base64 of the
// session's JSON form. Field order is fixed by the struct, so the output is
// deterministic.
func Encode(s Session) string {
	return base64.RawURLEncoding.EncodeToString(mustJSON(s))
}

// mustJSON marshals v and panics on failure. Session holds only strings, bools
// and ints, so a failure means a field was added that JSON cannot encode.
func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic("session: encode token: " + err.Error())
	}
	return b
}

// Decode parses a token produced by Encode, or by the web front-end's
// btoa(JSON.stringify(...)). It returns false for an empty token, undecodable
// base64, a payload that is not a JSON object, or a missing/non-string statement.
// Partition values are validated and replaced with defaults when out of range.
func Decode(token string) (Session, bool) {
	raw, ok := decodeBase64(token)
	if !ok {
		return Session{}, false
	}

	// Be liberal in what we accept: decode into a map first
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return Session{}, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Session{}, false
	}

	statement, ok := payload["statement"].(string)
	if !ok {
		return Session{}, false
	}

	distributed, _ := payload["distributed"].(bool)

	partitions := DefaultPartitions
	if n, ok := integer(payload["partitions"]); ok && n >= MinPartitions && n <= MaxPartitions {
		partitions = n
	}

	perTask := DefaultPartitionsPerTask(partitions)
	if n, ok := integer(payload["partitions_per_task"]); ok && n >= 1 && n <= partitions {
		perTask = n
	}

	return Session{
		Statement:         statement,
		Distributed:       distributed,
		Partitions:        partitions,
		PartitionsPerTask: perTask,
	}, true
}

// Link builds a shareable URL for token on top of base.
func Link(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return "?" + QueryParam + "=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	return u.String()
}

// TokenFromLink extracts the session token from a share URL. Input that does not
// look like a URL is returned as a bare token.
func TokenFromLink(link string) string {
	link = strings.TrimSpace(link)
	if !strings.Contains(link, "?") {
		return link
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get(QueryParam)
}

// decodeBase64 accepts both alphabets, padded or not.
func decodeBase64(token string) ([]byte, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}
	// An unescaped '+' in a query string arrives as a space.
	token = strings.ReplaceAll(token, " ", "+")
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	} {
		if b, err := enc.DecodeString(token); err == nil {
			return b, true
		}
	}
	return nil, false
}

// integer extracts an integral JSON number.
func integer(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
