package coverage

import "regexp"

var extensionRe = regexp.MustCompile(`(?:(\.[^.]+))?$`)

// Extension returns the trailing ".xxx" of a file name, or "" when there is
// none: "file.ts" gives ".ts" and "dir/file.ts.zip" gives ".zip".
func Extension(fileName string) string {
	m := extensionRe.FindStringSubmatch(fileName)
	if m == nil {
		return ""
	}
	return m[1]
}
