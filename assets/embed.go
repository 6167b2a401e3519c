// Package assets embeds the default category word lists and the SQL
// migrations shipped with the server.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words/*.txt
var Words embed.FS

//go:embed sql/*.sql
var Migrations embed.FS

func readLines(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// CategoryList returns the embedded word list for a category key such as
// "animals" (file words/animals.txt).
func CategoryList(key string) ([]string, error) {
	return readLines(Words, "words/"+strings.ToLower(key)+".txt")
}

// ReadList reads a word list file from any filesystem using the same
// comment and blank-line rules as the embedded lists.
func ReadList(fsys fs.FS, name string) ([]string, error) {
	return readLines(fsys, name)
}
