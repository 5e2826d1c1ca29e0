package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runApp runs the CLI with captured output. The user config directory is
// pointed at an empty temp dir so no real config file is read.
func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(append([]string{"sciencepedia"}, args...))
	return out.String(), errOut.String(), err
}

func writeSlugFile(t *testing.T, slugs ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slugs.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(slugs, "\n")+"\n"), 0644))
	return path
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	findCommand := func(name string) *cli.Command {
		for _, cmd := range app.Commands {
			if cmd.Name == name {
				return cmd
			}
		}
		return nil
	}

	t.Run("all commands are registered", func(t *testing.T) {
		for _, name := range []string{"lookup", "refresh", "import", "stats"} {
			assert.NotNil(t, findCommand(name), name)
		}
	})

	t.Run("lookup top has no fixed default", func(t *testing.T) {
		cmd := findCommand("lookup")
		require.NotNil(t, cmd)
		var topFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "top" {
				topFlag = f
				break
			}
		}
		require.NotNil(t, topFlag)
		assert.Zero(t, topFlag.Value)
		assert.Empty(t, topFlag.EnvVars)
	})

	t.Run("log-level defaults to info", func(t *testing.T) {
		var levelFlag *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "log-level" {
				levelFlag = f
				break
			}
		}
		require.NotNil(t, levelFlag)
		assert.Equal(t, "info", levelFlag.Value)
	})
}

func TestLookupCommand(t *testing.T) {
	dbDir := t.TempDir()
	slugFile := writeSlugFile(t, "Protein_Folding", "Quantum_Entanglement", "Black_Hole", "Schrödinger_equation")

	_, _, err := runApp(t, "--db", dbDir, "import", slugFile)
	require.NoError(t, err)

	t.Run("results keyed by query in input order", func(t *testing.T) {
		out, _, err := runApp(t, "--db", dbDir, "lookup", "quantum entanglement", "black hole", "zzzz qqqq")
		require.NoError(t, err)

		var decoded map[string][]core.Result
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		require.Len(t, decoded, 3)

		assert.Equal(t, "Quantum_Entanglement", decoded["quantum entanglement"][0].Slug)
		assert.Equal(t, core.MatchExact, decoded["quantum entanglement"][0].MatchType)
		assert.Equal(t, "Black_Hole", decoded["black hole"][0].Slug)
		assert.Equal(t, core.MatchNotFound, decoded["zzzz qqqq"][0].MatchType)

		first := strings.Index(out, `"quantum entanglement"`)
		second := strings.Index(out, `"black hole"`)
		third := strings.Index(out, `"zzzz qqqq"`)
		assert.True(t, first < second && second < third, out)
	})

	t.Run("non-ASCII is written as is", func(t *testing.T) {
		out, _, err := runApp(t, "--db", dbDir, "lookup", "schrödinger equation")
		require.NoError(t, err)
		assert.Contains(t, out, "Schrödinger_equation")
	})

	t.Run("base URL override", func(t *testing.T) {
		out, _, err := runApp(t, "--db", dbDir, "lookup", "--base-url", "https://example.org/kw", "black hole")
		require.NoError(t, err)
		assert.Contains(t, out, `"url": "https://example.org/kw/Black_Hole"`)
	})

	t.Run("explain logs layers", func(t *testing.T) {
		_, stderr, err := runApp(t, "--db", dbDir, "lookup", "--explain", "black hole")
		require.NoError(t, err)
		assert.Contains(t, stderr, "layer evaluated")
		assert.Contains(t, stderr, "layer=exact_slug")
	})

	t.Run("no queries", func(t *testing.T) {
		_, _, err := runApp(t, "--db", dbDir, "lookup")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("invalid top", func(t *testing.T) {
		_, _, err := runApp(t, "--db", dbDir, "lookup", "--top", "0", "black hole")
		assert.ErrorIs(t, err, core.ErrInvalidTopN)
	})

	t.Run("invalid top is reported before opening the database", func(t *testing.T) {
		notADir := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

		_, _, err := runApp(t, "--db", notADir, "lookup", "--top", "-1", "black hole")
		assert.ErrorIs(t, err, core.ErrInvalidTopN)
		assert.NotContains(t, err.Error(), "failed to open database")
	})
}

func TestRefreshCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<urlset>`)
		for _, slug := range []string{"Entropy", "Black_Hole", "Entropy"} {
			fmt.Fprintf(w, `<url><loc>https://www.bohrium.com/en/sciencepedia/feynman/keyword/%s</loc></url>`, slug)
		}
		fmt.Fprint(w, `</urlset>`)
	}))
	defer server.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := fmt.Sprintf("data_dir = %q\nsitemap_urls = [%q]\nretry_delay = \"1ms\"\n", t.TempDir(), server.URL+"/sitemap.xml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	out, _, err := runApp(t, "--config", cfgPath, "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 entries from 3 slugs")

	out, _, err = runApp(t, "--config", cfgPath, "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "Index unchanged: 2 entries")

	out, _, err = runApp(t, "--config", cfgPath, "refresh", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 entries")

	out, _, err = runApp(t, "--config", cfgPath, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 2")
	assert.Contains(t, out, "Slugs: 3")
}

func TestImportCommand(t *testing.T) {
	t.Run("missing file argument", func(t *testing.T) {
		_, _, err := runApp(t, "--db", t.TempDir(), "import")
		require.Error(t, err)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, _, err := runApp(t, "--db", t.TempDir(), "import", filepath.Join(t.TempDir(), "missing.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open slug file")
	})

	t.Run("empty file", func(t *testing.T) {
		_, _, err := runApp(t, "--db", t.TempDir(), "import", writeSlugFile(t))
		require.Error(t, err)
	})
}

func TestStatsCommand_Empty(t *testing.T) {
	out, _, err := runApp(t, "--db", t.TempDir(), "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No index")
}

func TestWriteResults(t *testing.T) {
	batch := []search.QueryResults{
		{Query: "b <tag>", Results: search.NotFound("b <tag>")},
		{Query: "a", Results: nil},
	}

	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, batch))

	out := buf.String()
	assert.Less(t, strings.Index(out, `"b <tag>"`), strings.Index(out, `"a"`))
	assert.Contains(t, out, `"a": []`)
	assert.Contains(t, out, "\n  \"b <tag>\": [")
}

func TestUniqueQueries(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no args", nil, []string{}},
		{"distinct", []string{"a", "b"}, []string{"a", "b"}},
		{"repeated keeps first", []string{"b", "a", "b"}, []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uniqueQueries(tt.args))
		})
	}
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
			{"WaRn", slog.LevelWarn},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
				assert.True(t, slog.Default().Enabled(t.Context(), tc.expected))
				assert.False(t, slog.Default().Enabled(t.Context(), tc.expected-1))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		_, _, err := runApp(t, "--log-level", "loud", "stats")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
