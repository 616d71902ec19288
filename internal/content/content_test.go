package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContent = `
profile:
  name: Lee Jasmin R. Adolfo
  tagline: Exploring code, design and data.
  email: leejasminadolfo@gmail.com
  links:
    - label: GitHub
      url: https://github.com/duckola
projects:
  - name: Bloom
    description: An exercise progress tracker.
    tech: Python, Streamlit
    url: https://github.com/duckola/bloom
  - name: WeatherWise
    description: Weather advisor.
    tech: Python
    ongoing: true
certificates:
  - title: Introduction to Python
    issuer: Sololearn
    issued: Aug 2025
achievements:
  - year: "2025"
    title: Top 25 Hackathon finalist
`

func writeTempContent(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writeTempContent(t, sampleContent))
	require.NoError(t, err)

	assert.Equal(t, "Lee Jasmin R. Adolfo", p.Profile.Name)
	require.Len(t, p.Projects, 2)
	assert.True(t, p.Projects[1].Ongoing)
	require.Len(t, p.Certificates, 1)
	assert.Equal(t, "Sololearn", p.Certificates[0].Issuer)
	require.Len(t, p.Achievements, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTempContent(t, "profile: [not: a, mapping"))
	assert.Error(t, err)
}

func TestLoad_RequiresName(t *testing.T) {
	_, err := Load(writeTempContent(t, "profile:\n  tagline: anonymous\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile.name")
}

func TestDefault(t *testing.T) {
	p := Default()
	require.NotNil(t, p)
	assert.NotEmpty(t, p.Profile.Name)
}
