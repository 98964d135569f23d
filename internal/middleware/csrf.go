package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	CSRFField      = "_csrf"
	CSRFHeader     = "X-CSRF-Token"
	ContextCSRFKey = "csrf_token"

	// mémoire utilisée pour les formulaires multipart avant débordement sur disque
	multipartMemory = 8 << 20
)

func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CSRFToken renvoie le jeton de la requête courante (pour les templates)
func CSRFToken(c *gin.Context) string {
	return c.GetString(ContextCSRFKey)
}

// CSRF attache un jeton à la session et l'exige sur toute requête qui modifie
// l'état, via le champ _csrf ou l'en-tête X-CSRF-Token.
func CSRF(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := getSession(c, store)
		token, _ := sess.Values[sessionCSRF].(string)
		if token == "" {
			var err error
			if token, err = newCSRFToken(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
				c.Abort()
				return
			}
			sess.Values[sessionCSRF] = token
			if err := sess.Save(c.Request, c.Writer); err != nil {
				zap.S().Errorf("❌ Sauvegarde de la session impossible: %v", err)
			}
		}
		c.Set(ContextCSRFKey, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sent := c.GetHeader(CSRFHeader)
		if sent == "" {
			if err := parseForm(c.Request); err != nil {
				var tooBig *http.MaxBytesError
				if errors.As(err, &tooBig) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "fichier trop volumineux"})
				} else {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Formulaire invalide"})
				}
				c.Abort()
				return
			}
			sent = c.Request.PostFormValue(CSRFField)
		}

		if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			zap.S().Warnw("⚠️ Jeton CSRF invalide", "path", c.Request.URL.Path, "ip", c.ClientIP())
			c.JSON(http.StatusForbidden, gin.H{"error": "Jeton CSRF invalide"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

// LimitBody borne la taille des corps de requête
func LimitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
