package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/sagegrid/internal/app"
	"github.com/specialistvlad/sagegrid/internal/cli"
	"github.com/specialistvlad/sagegrid/internal/compiler"
	"github.com/specialistvlad/sagegrid/internal/testutil"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// compileWith runs the full command-line path for args and returns the
// captured log output.
func compileWith(t *testing.T, args ...string) string {
	t.Helper()

	logs := &testutil.SafeBuffer{}
	cfg, shouldExit, err := cli.Parse(append([]string{"-log-level", "debug"}, args...), logs)
	require.NoError(t, err)
	require.False(t, shouldExit)

	a := app.NewApp(logs, cfg)
	require.NoError(t, a.Run(context.Background()), logs.String())

	t.Cleanup(func() {
		if os.Getenv("SAGEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return logs.String()
}

// workflow is the subset of the compiled document the tests inspect.
type workflow struct {
	Metadata struct {
		GenerateName string            `yaml:"generateName"`
		Annotations  map[string]string `yaml:"annotations"`
	} `yaml:"metadata"`
	Spec struct {
		Entrypoint string     `yaml:"entrypoint"`
		Templates  []template `yaml:"templates"`
		Arguments  struct {
			Parameters []parameter `yaml:"parameters"`
		} `yaml:"arguments"`
		ServiceAccountName string `yaml:"serviceAccountName"`
	} `yaml:"spec"`
}

type template struct {
	Name string `yaml:"name"`
	DAG  *struct {
		Tasks []struct {
			Name         string   `yaml:"name"`
			Template     string   `yaml:"template"`
			Dependencies []string `yaml:"dependencies"`
		} `yaml:"tasks"`
	} `yaml:"dag"`
	Container *struct {
		Image string   `yaml:"image"`
		Args  []string `yaml:"args"`
	} `yaml:"container"`
}

type parameter struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func readArchive(t *testing.T, path string) []byte {
	t.Helper()
	raw, err := compiler.ReadArchive(path)
	require.NoError(t, err)
	return raw
}

func decode(t *testing.T, raw []byte) workflow {
	t.Helper()
	var wf workflow
	require.NoError(t, yaml.Unmarshal(raw, &wf))
	return wf
}

func archivePath(dir, pipelineName string) string {
	return filepath.Join(dir, pipelineName+".go.zip")
}
