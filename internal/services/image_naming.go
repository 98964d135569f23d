package services

import (
	"crypto/rand"
	"math/big"
	"mime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MimeSVG  = "image/svg+xml"
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeGIF  = "image/gif"
)

// allowedTypes : types acceptés et extension associée
var allowedTypes = map[string]string{
	MimeSVG:  ".svg",
	MimePNG:  ".png",
	MimeJPEG: ".jpg",
	MimeGIF:  ".gif",
}

// NormalizeContentType retire les paramètres, passe en minuscules et
// ramène l'alias image/jpg vers image/jpeg
func NormalizeContentType(ct string) string {
	ct = strings.TrimSpace(ct)
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	ct = strings.ToLower(ct)
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return MimeJPEG
	}
	return ct
}

// IsAllowedType indique si le type (normalisé) fait partie de la liste autorisée
func IsAllowedType(ct string) bool {
	_, ok := allowedTypes[NormalizeContentType(ct)]
	return ok
}

// ExtensionFor renvoie l'extension dérivée du type validé, ".dat" sinon.
// Le nom de fichier fourni par le client n'est jamais utilisé.
func ExtensionFor(ct string) string {
	if ext, ok := allowedTypes[NormalizeContentType(ct)]; ok {
		return ext
	}
	return ".dat"
}

var newUUID = uuid.NewRandom

// NewImageName génère un nom de fichier imprévisible : un UUID v4, ou à défaut
// un horodatage suivi d'un suffixe aléatoire, plus l'extension du type.
func NewImageName(ct string, now time.Time) string {
	ext := ExtensionFor(ct)
	if id, err := newUUID(); err == nil {
		return id.String() + ext
	}

	suffix := strconv.FormatInt(now.UnixNano()&0xffff, 36)
	if n, err := rand.Int(rand.Reader, big.NewInt(1<<40)); err == nil {
		suffix = n.Text(36)
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix + ext
}
