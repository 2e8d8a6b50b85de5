package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gitlab.com/dirk.krummacker/contact-manager/pkg/model"
)

// client is a signed-in browser session against the service.
type client struct {
	http *http.Client
	base string
}

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080
func main() {
	basePtr := flag.String("url", "http://localhost:8080", "the base URL of the service")
	flag.Parse()

	c := newClient(*basePtr)
	user := "load" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	password := "secret"
	c.expect(http.StatusFound, http.MethodPost, "/signup",
		model.SignupForm{User: user, Pass: password, Pass2: password}.Values())
	c.expect(http.StatusFound, http.MethodPost, "/signin",
		model.SigninForm{User: user, Pass: password}.Values())
	fmt.Println("signed in as", user)

	form := model.ContactForm{First: "marcus", Last: "antonius", Email: "marcus@antonius.it", Phone: "555-555-5555"}
	edited := model.ContactForm{First: "gaius", Last: "octavius", Email: "gaius@octavius.it", Phone: "555-555-5556"}

	fmt.Println()
	fmt.Println("  Elements       ADD      EDIT   DETAILS    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{10, 50, 100, 500}
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		{
			// ADD requests
			var duration int64
			for i := 0; i < loops; i++ {
				duration += c.expect(http.StatusFound, http.MethodPost, "/add", form.Values())
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		// A fresh contact book hands out the ids 1 to loops.
		callInLoop(loops, func(id int64) int64 {
			return c.expect(http.StatusFound, http.MethodPost, fmt.Sprintf("/details/%d/edit", id), edited.Values())
		})
		callInLoop(loops, func(id int64) int64 {
			return c.expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/details/%d", id), nil)
		})
		callInLoop(loops, func(id int64) int64 {
			return c.expect(http.StatusFound, http.MethodPost, fmt.Sprintf("/details/%d/delete", id), nil)
		})
		fmt.Println()
	}
	c.expect(http.StatusFound, http.MethodGet, "/signout", nil)
}

func newClient(base string) *client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	return &client{
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		base: base,
	}
}

func callInLoop(loops int, f func(id int64) int64) {
	ids := createRandomSliceWithIDs(loops)
	var duration int64
	for _, id := range ids {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(loops*1000))
}

func createRandomSliceWithIDs(loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 1; i <= loops; i++ {
		ids = append(ids, int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// expect sends the request, panics unless the response has the wanted status, and returns the
// duration in nanoseconds.
func (c *client) expect(status int, method string, path string, form url.Values) int64 {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	before := time.Now().UnixNano()
	res, err := c.http.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	if res.StatusCode != status {
		panic(fmt.Sprintf("%s %s: got status %d, want %d", method, path, res.StatusCode, status))
	}
	return after - before
}
