package scaffold

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var headerRe = regexp.MustCompile(`['"]plugin_type['"]\s*:\s*['"]([A-Za-z]+)['"]`)

// ReadHeader recovers the operator type recorded on the first line of a
// generated build configuration.
func ReadHeader(path string) (OpType, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%s: empty build config", path)
	}
	line := strings.TrimSpace(sc.Text())
	if !strings.HasPrefix(line, "#") {
		return "", fmt.Errorf("%s: no plugin header", path)
	}
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return "", fmt.Errorf("%s: no plugin_type in header", path)
	}
	return ParseOpType(m[1])
}
