package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/gatehouse/internal/config"
)

func boolPtr(b bool) *bool { return &b }

func TestNewStore_ResolvesVariants(t *testing.T) {
	store, err := NewStore([]config.HookConfig{
		{
			Name:         "black",
			Repo:         "https://github.com/psf/black",
			Rev:          "24.3.0",
			Types:        []string{"python"},
			Args:         []string{"--quiet"},
			MutatesFiles: true,
		},
		{
			Name:      "check-headers",
			Entry:     "scripts/check_headers.sh",
			Types:     []string{"text"},
			PassFiles: boolPtr(false),
		},
	}, nil)
	require.NoError(t, err)

	descs := store.Descriptors()
	require.Len(t, descs, 2)

	remote := descs[0]
	assert.Equal(t, "https://github.com/psf/black@24.3.0#black", remote.ID())
	assert.Equal(t, []string{"black"}, remote.Source.Argv())
	assert.True(t, remote.PassFiles, "pass_filenames defaults to true")
	assert.True(t, remote.MutatesFiles)

	local := descs[1]
	assert.Equal(t, "local#check-headers", local.ID())
	assert.Equal(t, []string{"scripts/check_headers.sh"}, local.Source.Argv())
	assert.False(t, local.PassFiles)
}

func TestNewStore_Lookup(t *testing.T) {
	store, err := NewStore([]config.HookConfig{
		{Name: "lint", Entry: "./lint.sh", Types: []string{"go"}},
	}, nil)
	require.NoError(t, err)

	assert.NotNil(t, store.Lookup("local#lint"))
	assert.Nil(t, store.Lookup("local#missing"))
}

func TestNewStore_LocatedErrors(t *testing.T) {
	tests := []struct {
		name  string
		hooks []config.HookConfig
		want  string
	}{
		{
			name:  "unknown category",
			hooks: []config.HookConfig{{Name: "x", Entry: "./x", Types: []string{"fortran"}}},
			want:  "hooks[0]: field types",
		},
		{
			name:  "bad exclude regex",
			hooks: []config.HookConfig{{Name: "x", Entry: "./x", Types: []string{"go"}, Exclude: "["}},
			want:  "hooks[0]: field exclude",
		},
		{
			name: "duplicate id",
			hooks: []config.HookConfig{
				{Name: "x", Entry: "./x", Types: []string{"go"}},
				{Name: "x", Entry: "./x", Types: []string{"go"}},
			},
			want: "hooks[1]: field name: duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.hooks, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCategoryRegistry_CustomCategories(t *testing.T) {
	reg := NewCategoryRegistry(map[string][]string{
		"avro": {"avsc", ".avdl"},
	})

	assert.True(t, reg.Known("avro"))
	assert.True(t, reg.Matches("schemas/value.avsc", []string{"avro"}), "extensions normalize to dotted lowercase")
	assert.True(t, reg.Matches("idl/proto.AVDL", []string{"avro"}))
	assert.False(t, reg.Matches("a.py", []string{"avro"}))
}

func TestCategoryRegistry_TextUnion(t *testing.T) {
	reg := NewCategoryRegistry(nil)

	assert.True(t, reg.Matches("README.txt", []string{"text"}))
	assert.True(t, reg.Matches("main.py", []string{"text"}))
	assert.False(t, reg.Matches("img.png", []string{"text"}))
}
