package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/arjunvir/vastra/internal/domain"
)

const sessionCookie = "sid"

type sessionUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func secretKey() []byte {
	k := os.Getenv("SESSION_KEY")
	if k == "" {
		k = "dev-insecure"
	}
	return []byte(k)
}

func writeUserSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
		return
	}
	b, _ := json.Marshal(u)
	h := hmac.New(sha256.New, secretKey())
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

func readUserSession(r *http.Request) *sessionUser {
	if r == nil {
		return nil
	}
	c, err := r.Cookie("sess")
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil
	}
	var u sessionUser
	if err := json.Unmarshal(payload, &u); err != nil {
		return nil
	}
	if u.UID == "" || u.Email == "" {
		return nil
	}
	return &u
}

// resolveOwner maps the request to exactly one owner key: the signed user
// cookie when authenticated, otherwise a server-side session created lazily
// on first cart/wishlist interaction.
func (s *Server) resolveOwner(w http.ResponseWriter, r *http.Request) (domain.OwnerKey, error) {
	if u := readUserSession(r); u != nil {
		if uid, err := uuid.Parse(u.UID); err == nil {
			return domain.UserOwner(uid), nil
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if id, err := uuid.Parse(c.Value); err == nil {
			if _, err := s.sessions.Find(r.Context(), id); err == nil {
				_ = s.sessions.Touch(r.Context(), id)
				return domain.SessionOwner(id), nil
			}
		}
	}
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		return domain.OwnerKey{}, err
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sess.ID.String(), Path: "/", MaxAge: 60 * 60 * 24 * 30, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return domain.SessionOwner(sess.ID), nil
}

// anonymousSessionID returns the session id from the cookie without
// creating one. Used by the login flow to find a cart worth merging.
func anonymousSessionID(r *http.Request) *uuid.UUID {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return nil
	}
	return &id
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), 302)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		http.Error(w, "state", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != 200 {
		log.Error().Err(err).Msg("userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", 400)
		return
	}

	user, err := s.users.FindByEmail(r.Context(), info.Email)
	if err == domain.ErrNotFound {
		user = &domain.User{ID: uuid.New(), Email: info.Email, Name: info.Name}
		if err := s.users.Save(r.Context(), user); err != nil {
			log.Error().Err(err).Msg("save user")
			http.Error(w, "user", 500)
			return
		}
	} else if err != nil {
		http.Error(w, "user", 500)
		return
	}

	// fold the anonymous cart and wishlist into the user's so nothing added
	// before signing in is lost
	if sid := anonymousSessionID(r); sid != nil {
		if err := s.cart.MergeOnLogin(r.Context(), user.ID, *sid); err != nil {
			log.Error().Err(err).Msg("cart merge on login")
		}
		if err := s.wishlist.MergeOnLogin(r.Context(), user.ID, *sid); err != nil {
			log.Error().Err(err).Msg("wishlist merge on login")
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}

	writeUserSession(w, &sessionUser{UID: user.ID.String(), Email: user.Email, Name: user.Name})
	http.Redirect(w, r, "/", 302)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeUserSession(w, nil)
	http.Redirect(w, r, "/", 302)
}
