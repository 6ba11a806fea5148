package twoway_test

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/aretw0/twoway"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCertificationSuite runs every machine under testdata/certification
// against the expected verdicts listed in its cases.txt.
func TestCertificationSuite(t *testing.T) {
	dirs, err := filepath.Glob(filepath.Join("testdata", "certification", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, dirs)

	for _, dir := range dirs {
		t.Run(filepath.Base(dir), func(t *testing.T) {
			runCertification(t, dir)
		})
	}
}

type certCase struct {
	line int
	want string
	word string
}

func runCertification(t *testing.T, dir string) {
	machines, err := filepath.Glob(filepath.Join(dir, "machine.*"))
	require.NoError(t, err)
	require.Len(t, machines, 1, "exactly one machine file per directory")

	eng, err := twoway.New(machines[0])
	require.NoError(t, err)

	for _, c := range readCases(t, filepath.Join(dir, "cases.txt")) {
		outcome, err := eng.Evaluate(context.Background(), c.word)
		got := string(outcome.Verdict)
		if err != nil {
			got = string(domain.VerdictError)
		}
		assert.Equal(t, c.want, got, "cases.txt:%d word %q", c.line, c.word)
	}
}

func readCases(t *testing.T, path string) []certCase {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var cases []certCase
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		verdict, quoted, ok := strings.Cut(line, " ")
		require.True(t, ok, "%s:%d: want <verdict> <quoted word>", path, n)
		word, err := strconv.Unquote(strings.TrimSpace(quoted))
		require.NoError(t, err, "%s:%d", path, n)
		cases = append(cases, certCase{line: n, want: verdict, word: word})
	}
	require.NoError(t, scanner.Err())
	return cases
}
