package config

import (
	"path/filepath"
	"testing"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PENANCE_DATA", "/srv/penance")

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "empty", path: "", want: ""},
		{name: "plain", path: "/var/lib/penance.db", want: "/var/lib/penance.db"},
		{name: "home", path: "~", want: home},
		{name: "under home", path: "~/.local/share/penance/penance.db", want: filepath.Join(home, ".local/share/penance/penance.db")},
		{name: "variable", path: "$PENANCE_DATA/penance.db", want: "/srv/penance/penance.db"},
		{name: "braced variable", path: "${PENANCE_DATA}/archive.db", want: "/srv/penance/archive.db"},
		{name: "tilde not leading", path: "/tmp/~/penance.db", want: "/tmp/~/penance.db"},
		{name: "unset variable", path: "$PENANCE_NOT_SET_ANYWHERE/penance.db", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				assert.Contains(t, err.Error(), "PENANCE_NOT_SET_ANYWHERE")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_UnsetDatabaseVariable(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("database.path", "$PENANCE_NOT_SET_ANYWHERE/penance.db")

	_, err := Load(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
