package ffmpeg

import (
	"bytes"
	"context"
	"image"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/vidsift/internal/errors"
)

// Binary is the ffmpeg executable name or path.
var Binary = "ffmpeg"

// Decoder runs ffmpeg to decode individual frames.
type Decoder struct {
	logger zerolog.Logger
}

// NewDecoder creates a decoder that logs command lines at debug level.
func NewDecoder(logger zerolog.Logger) *Decoder {
	return &Decoder{logger: logger.With().Str("component", "ffmpeg").Logger()}
}

// ReadFrame decodes the requested frame and returns it as grayscale.
func (d *Decoder) ReadFrame(ctx context.Context, req FrameRequest) (*image.Gray, error) {
	args := BuildFrameArgs(req)

	d.logger.Debug().
		Str("cmd", Binary).
		Strs("args", args).
		Msg("decoding frame")

	cmd := exec.CommandContext(ctx, Binary, args...)

	var stdout, stderr bytes.Buffer
	stdout.Grow(req.FrameSize())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapExecError(Binary, err, strings.TrimSpace(stderr.String()))
	}

	img, err := RGBToGray(stdout.Bytes(), req.Width, req.Height)
	if err != nil {
		return nil, errors.NewDecodeError(req.Path, err)
	}
	return img, nil
}
