package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	const ceiling = 500 << 20

	testData := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		expectedErr error
	}{
		{
			name:        "mp4",
			filename:    "lobby.mp4",
			contentType: "video/mp4",
			size:        1024,
		},
		{
			name:        "webm uppercase ext",
			filename:    "promo.WEBM",
			contentType: "video/webm",
			size:        1024,
		},
		{
			name:        "ogg with charset param",
			filename:    "promo.ogg",
			contentType: "video/ogg; codecs=theora",
			size:        1024,
		},
		{
			name:        "missing content type allowed",
			filename:    "promo.mp4",
			contentType: "",
			size:        1024,
		},
		{
			name:        "at the ceiling",
			filename:    "big.mp4",
			contentType: "video/mp4",
			size:        ceiling,
		},
		{
			name:        "over the ceiling",
			filename:    "big.mp4",
			contentType: "video/mp4",
			size:        ceiling + 1,
			expectedErr: ErrTooLarge,
		},
		{
			name:        "unsupported extension",
			filename:    "movie.avi",
			contentType: "video/mp4",
			size:        1024,
			expectedErr: ErrUnsupportedType,
		},
		{
			name:        "no extension",
			filename:    "movie",
			contentType: "video/mp4",
			size:        1024,
			expectedErr: ErrUnsupportedType,
		},
		{
			name:        "extension ok but content type wrong",
			filename:    "movie.mp4",
			contentType: "application/pdf",
			size:        1024,
			expectedErr: ErrUnsupportedType,
		},
	}
	for _, td := range testData {
		t.Run(td.name, func(t *testing.T) {
			err := ValidateUpload(td.filename, td.contentType, td.size, ceiling)
			if td.expectedErr != nil {
				require.ErrorIs(t, err, td.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
