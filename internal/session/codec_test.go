package session

import (
	"encoding/base64"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genSession() *rapid.Generator[Session] {
	return rapid.Custom(func(t *rapid.T) Session {
		partitions := rapid.IntRange(MinPartitions, MaxPartitions).Draw(t, "partitions")
		return Session{
			Statement:         rapid.String().Draw(t, "statement"),
			Distributed:       rapid.Bool().Draw(t, "distributed"),
			Partitions:        partitions,
			PartitionsPerTask: rapid.IntRange(1, partitions).Draw(t, "partitionsPerTask"),
		}
	})
}

func rawToken(json string) string {
	return base64.StdEncoding.EncodeToString([]byte(json))
}

// TestProperty_RoundTrip checks decode(encode(s)) == s for every valid session.
func TestProperty_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSession().Draw(t, "session")

		got, ok := Decode(Encode(s))
		if !ok {
			t.Fatalf("Decode(Encode(%+v)) reported absent", s)
		}
		if got != s {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, s)
		}
	})
}

func TestProperty_EncodeIsDeterministicAndURLSafe(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSession().Draw(t, "session")
		a, b := Encode(s), Encode(s)
		if a != b {
			t.Fatalf("Encode not deterministic: %q vs %q", a, b)
		}
		for _, r := range a {
			if r == '+' || r == '/' || r == '=' {
				t.Fatalf("token %q contains non URL-safe rune %q", a, r)
			}
		}
	})
}

func TestProperty_PartitionsOutOfRangeDefault(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.OneOf(rapid.IntRange(-1000, 0), rapid.IntRange(11, 1000)).Draw(t, "partitions")
		token := rawToken(`{"statement":"select 1","partitions":` + strconv.Itoa(p) + `}`)

		got, ok := Decode(token)
		if !ok {
			t.Fatal("decode failed")
		}
		if got.Partitions != DefaultPartitions {
			t.Fatalf("partitions = %d, want %d", got.Partitions, DefaultPartitions)
		}
	})
}

func TestProperty_PartitionsPerTaskOutOfRangeDefault(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.IntRange(MinPartitions, MaxPartitions).Draw(t, "partitions")
		n := rapid.OneOf(rapid.IntRange(-100, 0), rapid.IntRange(p+1, p+100)).Draw(t, "perTask")
		token := rawToken(`{"statement":"s","partitions":` + strconv.Itoa(p) + `,"partitions_per_task":` + strconv.Itoa(n) + `}`)

		got, ok := Decode(token)
		if !ok {
			t.Fatal("decode failed")
		}
		if want := DefaultPartitionsPerTask(p); got.PartitionsPerTask != want {
			t.Fatalf("partitions_per_task = %d, want %d", got.PartitionsPerTask, want)
		}
	})
}

func TestDecode_Absent(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not base64", "%%%not-base64%%%"},
		{"not json", rawToken("hello")},
		{"json array", rawToken(`["statement"]`)},
		{"json null", rawToken(`null`)},
		{"missing statement", rawToken(`{"distributed":true,"partitions":2}`)},
		{"statement not text", rawToken(`{"statement":42}`)},
		{"statement null", rawToken(`{"statement":null}`)},
		{"trailing data", rawToken(`{"statement":"select 1"} trailing garbage`)},
		{"two objects", rawToken(`{"statement":"select 1"}{"statement":"select 2"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Decode(tt.token)
			assert.False(t, ok)
		})
	}
}

func TestDecode_Coercion(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Session
	}{
		{
			name: "only statement",
			json: `{"statement":"select 1"}`,
			want: Session{Statement: "select 1", Partitions: 4, PartitionsPerTask: 2},
		},
		{
			name: "distributed non boolean",
			json: `{"statement":"s","distributed":"yes"}`,
			want: Session{Statement: "s", Partitions: 4, PartitionsPerTask: 2},
		},
		{
			name: "partitions as string",
			json: `{"statement":"s","partitions":"7"}`,
			want: Session{Statement: "s", Partitions: 4, PartitionsPerTask: 2},
		},
		{
			name: "fractional partitions",
			json: `{"statement":"s","partitions":2.5}`,
			want: Session{Statement: "s", Partitions: 4, PartitionsPerTask: 2},
		},
		{
			name: "integral float accepted",
			json: `{"statement":"s","partitions":6.0,"partitions_per_task":3}`,
			want: Session{Statement: "s", Partitions: 6, PartitionsPerTask: 3},
		},
		{
			name: "per task validated against resolved partitions",
			json: `{"statement":"s","partitions":20,"partitions_per_task":8}`,
			want: Session{Statement: "s", Partitions: 4, PartitionsPerTask: 2},
		},
		{
			name: "one partition",
			json: `{"statement":"s","distributed":true,"partitions":1,"partitions_per_task":0}`,
			want: Session{Statement: "s", Distributed: true, Partitions: 1, PartitionsPerTask: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(rawToken(tt.json))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_AcceptsBothAlphabets(t *testing.T) {
	// "??>" encodes to bytes that differ between the std and URL alphabets.
	json := `{"statement":"select '??>'","partitions":3,"partitions_per_task":1}`
	want := Session{Statement: "select '??>'", Partitions: 3, PartitionsPerTask: 1}

	for name, enc := range map[string]*base64.Encoding{
		"std":     base64.StdEncoding,
		"raw std": base64.RawStdEncoding,
		"url":     base64.URLEncoding,
		"raw url": base64.RawURLEncoding,
	} {
		t.Run(name, func(t *testing.T) {
			got, ok := Decode(enc.EncodeToString([]byte(json)))
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestMustJSON(t *testing.T) {
	assert.JSONEq(t, `{"statement":"x","distributed":false,"partitions":1,"partitions_per_task":1}`,
		string(mustJSON(Session{Statement: "x", Partitions: 1, PartitionsPerTask: 1})))
	assert.PanicsWithValue(t, "session: encode token: json: unsupported type: chan int", func() {
		mustJSON(make(chan int))
	})
}

func TestLinkRoundTrip(t *testing.T) {
	s := Session{Statement: "select 1; select 2", Distributed: true, Partitions: 6, PartitionsPerTask: 3}
	token := Encode(s)

	link := Link("https://fiddle.example.com/", token)
	assert.Contains(t, link, "?q=")
	assert.Equal(t, token, TokenFromLink(link))

	got, ok := Decode(TokenFromLink(link))
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestTokenFromLink(t *testing.T) {
	assert.Equal(t, "abc", TokenFromLink("abc"))
	assert.Equal(t, "abc", TokenFromLink("  abc\n"))
	assert.Equal(t, "abc", TokenFromLink("https://x.test/?q=abc&other=1"))
	assert.Equal(t, "", TokenFromLink("https://x.test/?other=1"))
}
