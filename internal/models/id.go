package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// tempIDPrefix marks locally generated identifiers in serialized form.
const tempIDPrefix = "tmp-"

// ID identifies a record either by a locally generated temporary value or by
// the identifier assigned by the remote backend. A record carries a temporary
// id from the moment it is written locally until a sync pass confirms the
// remote insert, at which point the server id replaces it in place.
type ID struct {
	local  uint64
	remote string
}

// LocalID returns a temporary identifier for a record not yet confirmed
// by the remote backend.
func LocalID(v uint64) ID {
	return ID{local: v}
}

// RemoteID returns an identifier assigned by the remote backend.
func RemoteID(s string) ID {
	return ID{remote: s}
}

// IsLocal reports whether the id is a temporary, locally generated one.
func (id ID) IsLocal() bool {
	return id.remote == "" && id.local != 0
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id.remote == "" && id.local == 0
}

// Remote returns the server-assigned identifier, or "" for a local id.
func (id ID) Remote() string {
	return id.remote
}

// String renders the id in its serialized form: "tmp-<n>" for local ids,
// the raw server string otherwise.
func (id ID) String() string {
	if id.remote != "" {
		return id.remote
	}
	if id.local != 0 {
		return tempIDPrefix + strconv.FormatUint(id.local, 10)
	}
	return ""
}

// ParseID parses the serialized form produced by String.
func ParseID(s string) (ID, error) {
	if s == "" {
		return ID{}, nil
	}
	if rest, ok := strings.CutPrefix(s, tempIDPrefix); ok {
		v, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return ID{}, fmt.Errorf("malformed temporary id %q: %w", s, err)
		}
		return LocalID(v), nil
	}
	return RemoteID(s), nil
}

// MarshalJSON encodes the id as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes the id from a JSON string.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
