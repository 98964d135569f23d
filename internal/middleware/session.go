package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/utils"
)

const (
	SessionName   = "mystore_admin"
	sessionUser   = "user"
	sessionCSRF   = "csrf"
	sessionMaxAge = 8 * 3600
)

// NewSessionStore crée le store de cookies signés de l'admin
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// getSession renvoie toujours une session utilisable : un cookie illisible
// (secret changé, cookie altéré) donne une session neuve.
func getSession(c *gin.Context, store sessions.Store) *sessions.Session {
	sess, err := store.Get(c.Request, SessionName)
	if err != nil {
		zap.S().Debugf("⚠️ Session illisible, nouvelle session: %v", err)
	}
	return sess
}

// CurrentUser renvoie l'admin connecté, "" sinon
func CurrentUser(c *gin.Context, store sessions.Store) string {
	user, _ := getSession(c, store).Values[sessionUser].(string)
	return user
}

// Login ouvre la session admin et renouvelle le jeton CSRF
func Login(c *gin.Context, store sessions.Store, user string) error {
	sess := getSession(c, store)
	sess.Values[sessionUser] = user
	token, err := newCSRFToken()
	if err != nil {
		return err
	}
	sess.Values[sessionCSRF] = token
	c.Set(ContextCSRFKey, token)
	return sess.Save(c.Request, c.Writer)
}

// Logout supprime le cookie de session
func Logout(c *gin.Context, store sessions.Store) error {
	sess := getSession(c, store)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request, c.Writer)
}

// RequireAdmin redirige vers la page de connexion sans session admin
func RequireAdmin(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c, store)
		if user == "" {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Set(utils.ContextUserKey, user)
		c.Next()
	}
}
