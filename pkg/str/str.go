// Package str contains string utilities.
package str

// In returns true if string v is one of s strings.
func In(v string, s ...string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
