// Package service implements the web front end of the contact manager: sign-up, sign-in and the
// pages for listing, adding, showing, editing and deleting the contacts of the signed-in user.
package service

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gitlab.com/dirk.krummacker/contact-manager/internal/apperror"
	"gitlab.com/dirk.krummacker/contact-manager/internal/contact"
	"gitlab.com/dirk.krummacker/contact-manager/internal/credential"
	"gitlab.com/dirk.krummacker/contact-manager/internal/logging"
	"gitlab.com/dirk.krummacker/contact-manager/internal/session"
	"gitlab.com/dirk.krummacker/contact-manager/internal/validate"
	"gitlab.com/dirk.krummacker/contact-manager/pkg/model"
	"go.uber.org/zap"
)

// Flash messages shown on the page following a successful action.
const (
	LoginSuccessful = "Login successful. Enjoy your contacts."
	LoggedOut       = "Successfully logged out."
	AccountCreated  = "Account successfully created."
	ContactSaved    = "Contact saved."
	ContactEdited   = "Contact edits saved."
	ContactDeleted  = "Contact deleted."
)

// Messages of forms that are shown again with status 422.
const (
	UsernameTaken = "Username is already taken."
	InvalidForm   = "The form could not be read."
)

//go:embed templates/*.html
var templatesFS embed.FS

// templates holds the parsed HTML pages, each named after its file.
var templates = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

// Server holds the stores that the request handlers work on.
type Server struct {
	contacts    *contact.Store
	credentials *credential.Store
	sessions    *session.Manager
	logger      *zap.Logger
}

// NewServer creates a Server. The stores can be backed by flat files or a database; the handlers
// do not care.
func NewServer(contacts *contact.Store, credentials *credential.Store, sessions *session.Manager, logger *zap.Logger) *Server {
	return &Server{
		contacts:    contacts,
		credentials: credentials,
		sessions:    sessions,
		logger:      logger,
	}
}

// SetupHttpRouter initializes the router and registers all endpoints. All pages except sign-in
// and sign-up need a signed-in user.
func (s *Server) SetupHttpRouter(requestLogging bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if requestLogging {
		router.Use(logging.RequestLogger(s.logger))
	} else {
		s.logger.Info("Turning off HTTP request logging.")
	}
	router.SetHTMLTemplate(templates)
	router.Use(s.sessions.Middleware())
	router.NoRoute(s.notFound)

	router.GET("/signin", s.showSignin)
	router.POST("/signin", s.signin)
	router.GET("/signup", s.showSignup)
	router.POST("/signup", s.signup)

	guarded := router.Group("/", s.sessions.RequireSignIn())
	guarded.GET("/", s.listContacts)
	guarded.GET("/signout", s.signout)
	guarded.GET("/add", s.showAddContact)
	guarded.POST("/add", s.addContact)
	guarded.GET("/details/:id", s.showContact)
	guarded.GET("/details/:id/edit", s.showEditContact)
	guarded.POST("/details/:id/edit", s.editContact)
	guarded.POST("/details/:id/delete", s.deleteContact)
	return router
}

// render writes the named page. Every rendered page consumes the pending flash message; a
// message in data is shown instead of it.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	message, err := s.sessions.PopFlash(c)
	if err != nil {
		s.logger.Warn("could not clear flash message", zap.Error(err))
	}
	if _, ok := data["Message"]; !ok {
		data["Message"] = message
	}
	data["User"] = session.Username(c)
	c.HTML(status, name, data)
}

// redirect stores the flash message and sends the browser to location.
func (s *Server) redirect(c *gin.Context, location, message string) {
	if err := s.sessions.SetFlash(c, message); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, location)
}

// fail renders the error page for err. Internal errors are logged; their details never reach
// the page.
func (s *Server) fail(c *gin.Context, err error) {
	status := apperror.StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("user", session.Username(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.Error(err)
	s.render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Error":   apperror.Message(err),
		"Message": "",
	})
	c.Abort()
}

func (s *Server) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   http.StatusText(http.StatusNotFound),
		"Error":   "Page not found.",
		"Message": "",
	})
}

// bindForm reads the url-encoded or multipart form of the request into form.
func (s *Server) bindForm(c *gin.Context, form any) bool {
	if err := c.ShouldBindWith(form, binding.Form); err != nil {
		s.fail(c, apperror.Validation(InvalidForm))
		return false
	}
	return true
}

// signedInUser returns the user of the session, or renders the error page if nobody is
// signed in.
func (s *Server) signedInUser(c *gin.Context) (string, bool) {
	user, err := session.SignedInUser(c)
	if err != nil {
		s.fail(c, err)
		return "", false
	}
	return user, true
}

// contactId parses the id parameter of the request URL. Ids that are not positive numbers
// cannot name a contact and are reported as not found.
func (s *Server) contactId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		s.fail(c, apperror.ErrNotFound)
		return 0, false
	}
	return id, true
}

// showSignin renders the sign-in form.
//
// Example call:
//
//	> curl http://localhost:8080/signin
func (s *Server) showSignin(c *gin.Context) {
	s.render(c, http.StatusOK, "signin.html", gin.H{"Username": ""})
}

// signin checks the submitted user name and password. On success the session is signed in and
// the browser is sent to the contact list; otherwise the form is shown again with status 422.
//
// Example call:
//
//	> curl http://localhost:8080/signin --request "POST" --include --cookie-jar jar --data "user=monday&pass=1234"
func (s *Server) signin(c *gin.Context) {
	var form model.SigninForm
	if !s.bindForm(c, &form) {
		return
	}
	ok, err := s.credentials.Verify(c.Request.Context(), form.User, form.Pass)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		s.render(c, http.StatusUnprocessableEntity, "signin.html", gin.H{
			"Username": form.User,
			"Message":  apperror.Message(apperror.ErrInvalidCredentials),
		})
		return
	}
	if err := s.sessions.SignIn(c, form.User); err != nil {
		s.fail(c, err)
		return
	}
	s.redirect(c, "/", LoginSuccessful)
}

// signout ends the session of the signed-in user.
//
// Example call:
//
//	> curl http://localhost:8080/signout --include --cookie jar
func (s *Server) signout(c *gin.Context) {
	if err := s.sessions.SignOut(c); err != nil {
		s.fail(c, err)
		return
	}
	s.redirect(c, session.SignInPath, LoggedOut)
}

// showSignup renders the sign-up form.
//
// Example call:
//
//	> curl http://localhost:8080/signup
func (s *Server) showSignup(c *gin.Context) {
	s.render(c, http.StatusOK, "signup.html", gin.H{"Username": ""})
}

// signup creates an account. The password is checked before the user name, and a name that is
// already registered is refused.
//
// Example call:
//
//	> curl http://localhost:8080/signup --request "POST" --include --data "user=monday&pass=1234&pass2=1234"
func (s *Server) signup(c *gin.Context) {
	var form model.SignupForm
	if !s.bindForm(c, &form) {
		return
	}
	reject := func(message string) {
		s.render(c, http.StatusUnprocessableEntity, "signup.html", gin.H{
			"Username": form.User,
			"Message":  message,
		})
	}
	if message := validate.SignupError(form); message != "" {
		reject(message)
		return
	}
	ctx := c.Request.Context()
	exists, err := s.credentials.Exists(ctx, form.User)
	if err != nil {
		s.fail(c, err)
		return
	}
	if exists {
		reject(UsernameTaken)
		return
	}
	hash, err := s.credentials.Hash(form.Pass)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.credentials.Register(ctx, form.User, hash); err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info("account created", zap.String("user", form.User))
	s.redirect(c, session.SignInPath, AccountCreated)
}

// listContacts renders the contacts of the signed-in user, ordered by first name.
//
// Example call:
//
//	> curl http://localhost:8080/ --cookie jar
func (s *Server) listContacts(c *gin.Context) {
	user, ok := s.signedInUser(c)
	if !ok {
		return
	}
	contacts, err := s.contacts.List(c.Request.Context(), user)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "main.html", gin.H{"Contacts": contacts})
}

// showAddContact renders an empty contact form.
//
// Example call:
//
//	> curl http://localhost:8080/add --cookie jar
func (s *Server) showAddContact(c *gin.Context) {
	s.render(c, http.StatusOK, "add.html", gin.H{"Form": model.ContactForm{}})
}

// addContact stores the submitted contact. First and last name are capitalized. Invalid input is
// shown again with the first validation message and status 422.
//
// Example call:
//
//	> curl http://localhost:8080/add --request "POST" --include --cookie jar --data "first=hans&last=wurst&email=hans@wurst.de&phone=555-555-5555"
func (s *Server) addContact(c *gin.Context) {
	user, ok := s.signedInUser(c)
	if !ok {
		return
	}
	var form model.ContactForm
	if !s.bindForm(c, &form) {
		return
	}
	_, err := s.contacts.Add(c.Request.Context(), user, form)
	var validationErr *apperror.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.render(c, http.StatusUnprocessableEntity, "add.html", gin.H{
			"Form":    form,
			"Message": validationErr.Message,
		})
	case err != nil:
		s.fail(c, err)
	default:
		s.redirect(c, "/", ContactSaved)
	}
}

// showContact renders the contact whose id matches the id parameter of the request URL.
//
// Example call:
//
//	> curl http://localhost:8080/details/3 --cookie jar
func (s *Server) showContact(c *gin.Context) {
	user, ok := s.signedInUser(c)
	if !ok {
		return
	}
	id, ok := s.contactId(c)
	if !ok {
		return
	}
	found, err := s.contacts.Get(c.Request.Context(), user, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "details.html", gin.H{"Contact": found})
}

// showEditContact renders the edit form filled with the current values of the contact.
//
// Example call:
//
//	> curl http://localhost:8080/details/3/edit --cookie jar
func (s *Server) showEditContact(c *gin.Context) {
	user, ok := s.signedInUser(c)
	if !ok {
		return
	}
	id, ok := s.contactId(c)
	if !ok {
		return
	}
	found, err := s.contacts.Get(c.Request.Context(), user, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "edit.html", gin.H{
		"Id": id,
		"Form": model.ContactForm{
			First: found.First,
			Last:  found.Last,
			Email: found.Email,
			Phone: found.Phone,
		},
	})
}

// editContact replaces the contact with the submitted values. Invalid input is shown again, as
// submitted, with status 422.
//
// Example call:
//
//	> curl http://localhost:8080/details/3/edit --request "POST" --include --cookie jar --data "first=hans&last=wurst&email=hans@wurst.de&phone=555-555-5555"
func (s *Server) editContact(c *gin.Context) {
	user, ok := s.signedInUser(c)
	if !ok {
		return
	}
	id, ok := s.contactId(c)
	if !ok {
		return
	}
	var form model.ContactForm
	if !s.bindForm(c, &form) {
		return
	}
	_, err := s.contacts.Update(c.Request.Context(), user, id, form)
	var validationErr *apperror.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.render(c, http.StatusUnprocessableEntity, "edit.html", gin.H{
			"Id":      id,
			"Form":    form,
			"Message": validationErr.Message,
		})
	case err != nil:
		s.fail(c, err)
	default:
		s.redirect(c, "/details/"+strconv.FormatInt(id, 10), ContactEdited)
	}
}

// deleteContact deletes the contact whose id matches the id parameter of the request URL.
// Deleting a contact that does not exist is not an error.
//
// Example call:
//
//	> curl http://localhost:8080/details/3/delete --request "POST" --include --cookie jar
func (s *Server) deleteContact(c *gin.Context) {
	user, ok := s.signedInUser(c)
	if !ok {
		return
	}
	id, ok := s.contactId(c)
	if !ok {
		return
	}
	if err := s.contacts.Delete(c.Request.Context(), user, id); err != nil {
		s.fail(c, err)
		return
	}
	s.redirect(c, "/", ContactDeleted)
}
