// README: Identifier types shared by modules.
package types

import "strconv"

// ID is a remote order-service record id (numeric on the wire).
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal id; zero and negatives are rejected.
func ParseID(s string) (ID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ID(n), true
}
