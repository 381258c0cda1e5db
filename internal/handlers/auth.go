package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ahsanfayaz52/sharednotes/internal/auth"
	"github.com/ahsanfayaz52/sharednotes/internal/respond"
)

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// readCredentials accepts a JSON body or a submitted form.
func readCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := decodeJSON(r, &c)
		return c, err
	}
	c.Username = r.FormValue("username")
	c.Email = r.FormValue("email")
	c.Password = r.FormValue("password")
	return c, nil
}

func RegisterHandler(authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := readCredentials(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		user, err := authSvc.Register(r.Context(), c.Username, c.Email, c.Password)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusCreated, user.Response())
	}
}

func LoginHandler(authSvc *auth.Service, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := readCredentials(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if c.Email == "" || c.Password == "" {
			badRequest(w, "Email and password are required")
			return
		}

		session, err := authSvc.Login(r.Context(), c.Email, c.Password)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    session.Token,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
			Expires:  session.ExpiresAt,
		})

		respond.JSON(w, http.StatusOK, map[string]any{
			"token":      session.Token,
			"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
			"user":       session.User.Response(),
		})
	}
}

func LogoutHandler(authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := authSvc.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
			respond.Error(w, r, err)
			return
		}

		// Clear cookie
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    "",
			HttpOnly: true,
			Path:     "/",
			MaxAge:   -1,
		})

		respond.JSON(w, http.StatusOK, map[string]string{"message": "You have been logged out"})
	}
}

func SearchUsersHandler(authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := authSvc.SearchUsernames(r.Context(), auth.ActorFromContext(r.Context()), r.URL.Query().Get("q"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, names)
	}
}
