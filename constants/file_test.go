package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "jpeg", NormalizeExt("jpeg"))
}

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapExtToFormat(".pdf"))
	assert.Equal(t, IMAGE, MapExtToFormat("JPG"))
	assert.Equal(t, IMAGE, MapExtToFormat(".png"))
	assert.Equal(t, Format(""), MapExtToFormat(".docx"))
}

func TestMapMIMEToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapMIMEToFormat("application/pdf"))
	assert.Equal(t, IMAGE, MapMIMEToFormat("image/png"))
	assert.Equal(t, IMAGE, MapMIMEToFormat("image/jpeg; charset=binary"))
	assert.Equal(t, PDF, MapMIMEToFormat(" Application/PDF "))
	assert.Equal(t, Format(""), MapMIMEToFormat("text/plain"))
	assert.Equal(t, Format(""), MapMIMEToFormat(""))
}
