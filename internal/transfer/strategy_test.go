package transfer

import (
	"testing"

	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/profile"
	"github.com/mutasim/xfer/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remoteEndpoint(path string) target.Endpoint {
	return target.Endpoint{
		IsRemote: true,
		Profile:  profile.ServerProfile{Alias: "web", Host: "example.com", User: "dev"},
		Path:     path,
	}
}

func localEndpoint(path string) target.Endpoint {
	return target.Endpoint{Path: path}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want Strategy
	}{
		{
			name: "local dir to remote is directory-sync",
			req:  Request{Source: localEndpoint("./app"), Dest: remoteEndpoint("/srv"), HasDest: true, SourceIsDir: true},
			want: DirectorySync,
		},
		{
			name: "local file to remote is single-file-copy",
			req:  Request{Source: localEndpoint("file.txt"), Dest: remoteEndpoint("/srv"), HasDest: true},
			want: SingleFileCopy,
		},
		{
			name: "remote source, no destination is remote-list",
			req:  Request{Source: remoteEndpoint("/var/www")},
			want: RemoteList,
		},
		{
			name: "explicit sync forces directory-sync",
			req:  Request{Source: localEndpoint("./app"), Dest: remoteEndpoint("/srv"), HasDest: true, Recursive: true},
			want: DirectorySync,
		},
		{
			name: "explicit sync pulling from remote",
			req:  Request{Source: remoteEndpoint("/srv"), Dest: localEndpoint("./app"), HasDest: true, Recursive: true},
			want: DirectorySync,
		},
		{
			name: "remote file to local is single-file-copy",
			req:  Request{Source: remoteEndpoint("/srv/file"), Dest: localEndpoint("."), HasDest: true},
			want: SingleFileCopy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectBothLocalIsAmbiguous(t *testing.T) {
	_, err := Select(Request{Source: localEndpoint("a"), Dest: localEndpoint("b"), HasDest: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAmbiguous))

	// Listing a local path has no remote component either
	_, err = Select(Request{Source: localEndpoint("a")})
	assert.True(t, errors.IsCode(err, errors.ErrAmbiguous))
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "single-file-copy", SingleFileCopy.String())
	assert.Equal(t, "directory-sync", DirectorySync.String())
	assert.Equal(t, "remote-list", RemoteList.String())
}

func TestStrategyTool(t *testing.T) {
	assert.Equal(t, "scp", SingleFileCopy.Tool())
	assert.Equal(t, "rsync", DirectorySync.Tool())
	assert.Equal(t, "ssh", RemoteList.Tool())
}
