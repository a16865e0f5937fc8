package codec

import (
	"bytes"
	"strings"
	"testing"

	"familytree/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const familyYAML = `
people:
  - id: 1
    name: Mary
    gender: female
    born: 1960-05-01
  - id: 2
    name: Frank
    gender: male
    born: 1958-02-11
    partner: 1
  - id: 3
    name: Carl
    gender: male
    born: 1990-01-01
    died: 2020-06-01
    mother: 1
    father: 2
  - id: 4
    name: Clara
    gender: female
    born: "1992-07-19"
    mother: 1
`

func TestYAMLCodecParse(t *testing.T) {
	fragment, err := NewYAMLCodec().Parse(strings.NewReader(familyYAML))
	require.NoError(t, err)
	require.Len(t, fragment.People, 4)

	carl := fragment.People[2]
	assert.Equal(t, domain.PersonID(3), carl.ID)
	assert.Equal(t, "1990-01-01", carl.Born)
	assert.Equal(t, "2020-06-01", carl.Died)
	assert.Equal(t, domain.PersonID(1), carl.Mother)
	assert.Equal(t, domain.PersonID(2), carl.Father)
	assert.Equal(t, "1992-07-19", fragment.People[3].Born)

	people, err := fragment.Build()
	require.NoError(t, err)

	g := domain.NewFamilyGraphFrom(people)
	assert.Equal(t, 4, g.Len())

	mary, _ := g.Person(1)
	frank, _ := g.Person(2)
	clara, _ := g.Person(4)
	assert.Equal(t, []domain.PersonID{3, 4}, mary.Children.IDs())
	assert.Equal(t, domain.PersonID(2), mary.Partner)
	assert.Equal(t, domain.PersonID(1), frank.Partner)
	assert.Equal(t, []domain.PersonID{3}, clara.Siblings.IDs())
}

func TestYAMLCodecRejectsUnknownFields(t *testing.T) {
	_, err := NewYAMLCodec().Parse(strings.NewReader("people:\n  - name: X\n    nickname: Y\n"))
	assert.Error(t, err)
}

func TestJSONCodecParse(t *testing.T) {
	input := `{"people":[{"id":1,"name":"Mary","gender":"female","born":"1960-05-01","children":[2]},
		{"id":2,"name":"Carl","gender":"male","born":"1990-01-01"}]}`

	fragment, err := NewJSONCodec().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, fragment.People, 2)
	assert.Equal(t, []domain.PersonID{2}, fragment.People[0].Children)

	_, err = NewJSONCodec().Parse(strings.NewReader(`{"people": [`))
	assert.Error(t, err)
}

func TestCodecRoundTrip(t *testing.T) {
	source, err := NewYAMLCodec().Parse(strings.NewReader(familyYAML))
	require.NoError(t, err)
	people, err := source.Build()
	require.NoError(t, err)
	snapshot := domain.Snapshot(domain.NewFamilyGraphFrom(people))

	for _, c := range []Codec{NewYAMLCodec(), NewJSONCodec()} {
		t.Run(c.Format(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Export(snapshot, &buf))

			decoded, err := c.Parse(&buf)
			require.NoError(t, err)
			assert.Equal(t, snapshot.People, decoded.People)
			assert.Equal(t, snapshot.Relations, decoded.Relations)
		})
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"yaml", "yaml"},
		{"YML", "yaml"},
		{"json", "json"},
	}
	for _, tt := range tests {
		c, err := ForFormat(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Format())
	}

	_, err := ForFormat("xml")
	assert.Error(t, err)
}

func TestForPath(t *testing.T) {
	c, err := ForPath("testdata/family.yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	c, err = ForPath("/tmp/family.json")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Format())

	_, err = ForPath("family")
	assert.Error(t, err)
}
