package integrationtest

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-manager/internal/contact"
	"gitlab.com/dirk.krummacker/contact-manager/internal/credential"
	"gitlab.com/dirk.krummacker/contact-manager/internal/filestore"
	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
	"gitlab.com/dirk.krummacker/contact-manager/internal/service"
	"gitlab.com/dirk.krummacker/contact-manager/internal/session"
	pub "gitlab.com/dirk.krummacker/contact-manager/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// startService runs the complete service on flat files below dataDir and returns its base URL.
func startService(t *testing.T, dataDir string) string {
	gin.SetMode(gin.ReleaseMode)
	logger := zap.NewNop()
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), time.Hour, false, logger)
	server := service.NewServer(
		contact.NewStore(contact.NewFileRepository(filepath.Join(dataDir, "data"))),
		credential.NewStore(credential.NewFileRepository(filepath.Join(dataDir, "users.yml")), bcrypt.MinCost),
		sessions,
		logger)
	httpServer := httptest.NewServer(server.SetupHttpRouter(false))
	t.Cleanup(httpServer.Close)
	return httpServer.URL
}

// browser is an HTTP client that keeps cookies and follows redirects like a web browser.
type browser struct {
	t      *testing.T
	client *http.Client
	base   string
}

func newBrowser(t *testing.T, base string) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, client: &http.Client{Jar: jar}, base: base}
}

// get requests path and returns the final status code and page.
func (b *browser) get(path string) (int, string) {
	res, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return read(b.t, res)
}

// post submits form to path and returns the final status code and page.
func (b *browser) post(path string, form url.Values) (int, string) {
	res, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return read(b.t, res)
}

func read(t *testing.T, res *http.Response) (int, string) {
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

// TestContactHappyPath signs up, signs in, and adds, shows, edits and deletes a contact.
func TestContactHappyPath(t *testing.T) {
	dataDir := t.TempDir()
	b := newBrowser(t, startService(t, dataDir))

	// anonymous visitors are sent to the sign-in page
	status, page := b.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Please sign in.")
	assert.Contains(t, page, `<form method="post" action="/signin">`)

	// sign up and sign in
	status, page = b.post("/signup", pub.SignupForm{User: "erika", Pass: "geheim", Pass2: "geheim"}.Values())
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, service.AccountCreated)
	status, page = b.post("/signin", pub.SigninForm{User: "erika", Pass: "geheim"}.Values())
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, service.LoginSuccessful)
	assert.Contains(t, page, "Signed in as erika.")

	// add a contact
	form := pub.ContactForm{First: "rudi", Last: "voeller", Email: "rudi@example.de", Phone: "555-555-5555"}
	status, page = b.post("/add", form.Values())
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, service.ContactSaved)
	assert.Contains(t, page, `<a href="/details/1">Rudi Voeller</a>`)

	// the contact is stored in the flat file of the user
	var stored model.Contacts
	found, err := filestore.ReadYAML(filepath.Join(dataDir, "data", "erika", "contacts.yml"), &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Rudi", stored[1].First)
	assert.Equal(t, "rudi@example.de", stored[1].Email)

	// show and edit it
	status, page = b.get("/details/1")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Rudi Voeller")
	form.Phone = "123-456-7890"
	status, page = b.post("/details/1/edit", form.Values())
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, service.ContactEdited)
	assert.Contains(t, page, "123-456-7890")

	// invalid edits are refused
	form.Phone = "0815"
	status, page = b.post("/details/1/edit", form.Values())
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, "Invalid phone number (format must be 555-555-5555).")
	status, page = b.get("/details/1")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "123-456-7890")

	// delete it
	status, page = b.post("/details/1/delete", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, service.ContactDeleted)
	assert.NotContains(t, page, "Rudi Voeller")
	status, _ = b.get("/details/1")
	assert.Equal(t, http.StatusNotFound, status)

	// sign out
	status, page = b.get("/signout")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, service.LoggedOut)
	status, page = b.get("/add")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Please sign in.")
}

// TestUsersAreIsolated expects that two browsers signed in as different users only see their
// own contacts.
func TestUsersAreIsolated(t *testing.T) {
	dataDir := t.TempDir()
	base := startService(t, dataDir)
	alice := newBrowser(t, base)
	bobby := newBrowser(t, base)
	for name, b := range map[string]*browser{"alice": alice, "bobby": bobby} {
		status, _ := b.post("/signup", pub.SignupForm{User: name, Pass: "pass", Pass2: "pass"}.Values())
		require.Equal(t, http.StatusOK, status)
		status, _ = b.post("/signin", pub.SigninForm{User: name, Pass: "pass"}.Values())
		require.Equal(t, http.StatusOK, status)
	}

	status, _ := alice.post("/add", pub.ContactForm{First: "true", Last: "bunny", Email: "true@bunny.com", Phone: "555-555-5555"}.Values())
	require.Equal(t, http.StatusOK, status)

	_, page := bobby.get("/")
	assert.NotContains(t, page, "True Bunny")
	status, _ = bobby.get("/details/1")
	assert.Equal(t, http.StatusNotFound, status)
	_, page = alice.get("/")
	assert.Contains(t, page, "True Bunny")

	_, err := os.Stat(filepath.Join(dataDir, "data", "bobby", "contacts.yml"))
	assert.NoError(t, err)
}

// TestSignupTwice expects that an existing account cannot be taken over.
func TestSignupTwice(t *testing.T) {
	b := newBrowser(t, startService(t, t.TempDir()))
	status, _ := b.post("/signup", pub.SignupForm{User: "monday", Pass: "1234", Pass2: "1234"}.Values())
	require.Equal(t, http.StatusOK, status)

	status, page := b.post("/signup", pub.SignupForm{User: "monday", Pass: "5678", Pass2: "5678"}.Values())
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, service.UsernameTaken)

	status, _ = b.post("/signin", pub.SigninForm{User: "monday", Pass: "5678"}.Values())
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = b.post("/signin", pub.SigninForm{User: "monday", Pass: "1234"}.Values())
	assert.Equal(t, http.StatusOK, status)
}
