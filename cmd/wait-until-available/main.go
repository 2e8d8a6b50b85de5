package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/signin -timeout=2m
func main() {
	urlPtr := flag.String("url", "http://localhost:8080/signin", "the page that must answer with 200")
	intervalPtr := flag.Duration("interval", 5*time.Second, "the time between two attempts")
	timeoutPtr := flag.Duration("timeout", 0, "give up after this time (0 waits forever)")
	flag.Parse()

	var totalWaitTime time.Duration
	for {
		res, err := http.Get(*urlPtr)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				break
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		if *timeoutPtr > 0 && totalWaitTime >= *timeoutPtr {
			fmt.Printf("Gave up after %s", totalWaitTime)
			fmt.Println()
			os.Exit(1)
		}
		totalWaitTime += *intervalPtr
		fmt.Printf("Waiting %s", totalWaitTime)
		fmt.Println()
		time.Sleep(*intervalPtr)
	}
}
