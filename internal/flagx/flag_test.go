package flagx

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-s", "-notvalue"},
			allowedFlags: []string{"-s"},
			want:         []string{"-s"},
		},
		{
			name:         "positional equals sign is not a flag",
			args:         []string{"key=value", "-s", "x"},
			allowedFlags: []string{"-s", "key"},
			want:         []string{"-s", "x"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-d", "one", "-d", "two"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "one", "-d", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestNames(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.String("a", "", "")
	fs.Bool("secure", false, "")

	assert.ElementsMatch(t, []string{"-a", "--a", "-secure", "--secure"}, Names(fs))
}

func TestParseOwn_IgnoresForeignFlags(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	addr := fs.String("a", ":1", "")

	err := ParseOwn(fs, []string{"-c", "cfg.json", "-a", ":9000", "-zzz"})
	require.NoError(t, err)
	assert.Equal(t, ":9000", *addr)
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/path/short.json", ConfigFileFlag([]string{"-c", "/path/short.json"}))
	assert.Equal(t, "/path/long.json", ConfigFileFlag([]string{"-config=/path/long.json"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
	assert.Equal(t, "/path/2.json", ConfigFileFlag([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
}
