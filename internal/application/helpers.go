package application

import "strings"

func withAt(name string) string {
	if strings.HasPrefix(name, "@") {
		return name
	}
	return "@" + name
}

func isGenericContentType(ct string) bool {
	switch ct {
	case "", "application/octet-stream", "binary/octet-stream":
		return true
	}
	return false
}
