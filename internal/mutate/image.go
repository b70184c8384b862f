package mutate

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"handla-cli/internal/model"
)

// MaxImageBytes bounds inline images; they are stored inside the product record.
const MaxImageBytes = 2 << 20

// ImageDataURI reads image bytes and encodes them as a data URI suitable for UpdateImage.
func ImageDataURI(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", &model.ValidationError{Field: "image", Reason: "empty file"}
	}
	if len(b) > MaxImageBytes {
		return "", &model.ValidationError{Field: "image", Reason: fmt.Sprintf("larger than %d bytes", MaxImageBytes)}
	}
	mt := mimetype.Detect(b)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", &model.ValidationError{Field: "image", Reason: "not an image (" + mt.String() + ")"}
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// ImageSize returns the decoded byte size of a base64 data URI, or 0 if it is not one.
func ImageSize(dataURI string) int {
	i := strings.Index(dataURI, ";base64,")
	if i < 0 {
		return 0
	}
	return base64.StdEncoding.DecodedLen(len(dataURI) - i - len(";base64,"))
}
