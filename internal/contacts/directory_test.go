package contacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory() *Directory {
	return NewDirectory(
		Contact{Name: "User", CalendarID: "primary"},
		Contact{Name: "Harry", CalendarID: "harry@example.com"},
		Contact{Name: "Aaron", CalendarID: "aaron@example.com"},
		Contact{Name: "Blake", CalendarID: "blake@example.com"},
		Contact{Name: "Myles", CalendarID: "myles@example.com"},
		Contact{Name: "Bob", CalendarID: "bob@example.com", Email: "bob@work.example.com"},
		Contact{Name: "Marcos", CalendarID: "marcos@example.com"},
	)
}

func TestDirectory_Resolve(t *testing.T) {
	d := testDirectory()

	tests := []struct {
		query string
		want  string
	}{
		{query: "Marcos", want: "Marcos"},
		{query: "Mrcs", want: "Marcos"},
		{query: "marcos", want: "Marcos"},
		{query: " Blaek ", want: "Blake"},
		{query: "Hary", want: "Harry"},
		{query: "Zzyzx", want: "User"},
		{query: "", want: "User"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Resolve(tt.query).Name)
		})
	}
}

func TestDirectory_Match(t *testing.T) {
	d := testDirectory()

	c, ok := d.Match("Myls")
	require.True(t, ok)
	assert.Equal(t, "myles@example.com", c.CalendarID)

	_, ok = d.Match("Zzyzx")
	assert.False(t, ok)
}

func TestDirectory_Accessors(t *testing.T) {
	d := testDirectory()

	assert.Equal(t, "User", d.Principal().Name)
	assert.Equal(t, []string{"Aaron", "Blake", "Bob", "Harry", "Marcos", "Myles"}, d.Names())
	assert.Len(t, d.Contacts(), 6)

	bob, ok := d.Lookup("Bob")
	require.True(t, ok)
	assert.Equal(t, "bob@work.example.com", bob.Address())

	harry, _ := d.Lookup("Harry")
	assert.Equal(t, "harry@example.com", harry.Address())

	_, ok = d.Lookup("bob")
	assert.False(t, ok, "Lookup is exact")

	names := d.Names()
	names[0] = "mutated"
	assert.Equal(t, "Aaron", d.Names()[0])
}

func TestNewDirectory_DuplicateReplaces(t *testing.T) {
	d := NewDirectory(Contact{Name: "me", CalendarID: "primary"},
		Contact{Name: "Bob", CalendarID: "old@example.com"},
		Contact{Name: "Bob", CalendarID: "new@example.com"},
	)

	assert.Equal(t, []string{"Bob"}, d.Names())
	bob, _ := d.Lookup("Bob")
	assert.Equal(t, "new@example.com", bob.CalendarID)
}

func TestParseDirectory(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		check   func(t *testing.T, d *Directory)
	}{
		{
			name: "valid",
			data: `{"principal":{"calendar_id":"primary"},"contacts":[{"name":"Marcos","calendar_id":"marcos@example.com"}]}`,
			check: func(t *testing.T, d *Directory) {
				assert.Equal(t, "me", d.Principal().Name)
				assert.Equal(t, "Marcos", d.Resolve("mrcs").Name)
			},
		},
		{
			name:    "missing principal calendar",
			data:    `{"principal":{"name":"Me"}}`,
			wantErr: ErrInvalidDirectory,
		},
		{
			name:    "contact without calendar",
			data:    `{"principal":{"calendar_id":"primary"},"contacts":[{"name":"Bob"}]}`,
			wantErr: ErrInvalidDirectory,
		},
		{
			name:    "duplicate contact",
			data:    `{"principal":{"calendar_id":"primary"},"contacts":[{"name":"Bob","calendar_id":"a"},{"name":"Bob","calendar_id":"b"}]}`,
			wantErr: ErrInvalidDirectory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDirectory([]byte(tt.data))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, d)
		})
	}

	_, err := ParseDirectory([]byte("{"))
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"principal":{"name":"Me","calendar_id":"primary"},"contacts":[]}`), 0600))

	d, err := LoadDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, "Me", d.Principal().Name)
	assert.Empty(t, d.Names())

	_, err = LoadDirectory(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
