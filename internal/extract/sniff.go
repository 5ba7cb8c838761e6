package extract

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/cardioscan/heartrisk/constants"
	"github.com/cardioscan/heartrisk/internal/common"
)

// sniffFormat determines the actual content format from the file signature
// and checks it against the declared type. Extensions and declared headers
// lie; magic bytes do not. A disagreement is a hard failure.
func sniffFormat(data []byte, declaredType string) (constants.Format, error) {
	if len(data) == 0 {
		return "", common.UnsupportedFormatError("empty file")
	}

	detected := mimetype.Detect(data)
	actual := constants.MapMIMEToFormat(detected.String())
	if actual == "" {
		return "", common.UnsupportedFormatError(
			fmt.Sprintf("unsupported content type %q; supported: PDF, JPEG, PNG", detected.String()))
	}

	declared := constants.MapMIMEToFormat(declaredType)
	if declared == "" {
		return "", common.UnsupportedFormatError(
			fmt.Sprintf("unsupported declared type %q; supported: PDF, JPEG, PNG", declaredType))
	}
	if declared != actual {
		return "", common.UnsupportedFormatError(
			fmt.Sprintf("declared type %q does not match file content (%s)", declaredType, actual))
	}
	return actual, nil
}
