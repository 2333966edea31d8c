package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MrEthical07/goShop/internal/auth/provider/google"
)

const stateCookieName = "oauthState"

// GoogleFlow carries the Google sign-in dependencies for the HTTP layer.
type GoogleFlow struct {
	Provider *google.Provider
	// ClientURL is where the browser lands after a successful sign-in.
	ClientURL string
	Secure    bool
}

// GoogleRedirect starts the sign-in round trip: it stamps a CSRF state
// cookie and sends the browser to Google.
func (h *Handler) GoogleRedirect(c *gin.Context) {
	state := uuid.NewString()
	// Lax, not Strict: the callback arrives as a cross-site navigation
	// and a Strict cookie would not be sent with it.
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.google.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Redirect(http.StatusFound, h.google.Provider.AuthCodeURL(state))
}

// GoogleCallback finishes the round trip: it checks the state cookie,
// exchanges the code, resolves the account and opens a session.
func (h *Handler) GoogleCallback(c *gin.Context) {
	stateCookie, err := c.Cookie(stateCookieName)
	if err != nil || stateCookie == "" || stateCookie != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid OAuth state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing authorization code"})
		return
	}

	identity, err := h.google.Provider.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		h.fail(c, "google_callback", err)
		return
	}
	if !identity.EmailVerified {
		c.JSON(http.StatusForbidden, gin.H{"message": "Google account email is not verified"})
		return
	}

	user, err := h.svc.ResolveGoogleUser(c.Request.Context(), identity.Subject, identity.Email, identity.Name)
	if err != nil {
		h.fail(c, "google_callback", err)
		return
	}
	pair, err := h.svc.IssueSession(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "google_callback", err)
		return
	}

	h.cookies.SetPair(c.Writer, pair)
	if h.google.ClientURL != "" {
		c.Redirect(http.StatusFound, h.google.ClientURL)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}
