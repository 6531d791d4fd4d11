// Watch - terminal client for the live detection feed.
//
// Connects to a running dresswatch server, subscribes to the camera
// websocket and prints one line per detection cycle. Useful for
// checking a deployment without opening the dashboard.
//
// Usage: SERVER=localhost:8000 go run ./cmd/watch
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/campusguard/dresswatch/internal/httpc"
)

type feedMessage struct {
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	Compliance struct {
		IsCompliant   bool     `json:"is_compliant"`
		MissingItems  []string `json:"missing_items"`
		DetectedItems []string `json:"detected_items"`
		Gender        string   `json:"gender"`
	} `json:"compliance"`
}

func main() {
	server := os.Getenv("SERVER")
	if server == "" {
		server = "localhost:8000"
	}

	fmt.Println("👔 Dresswatch live feed")
	fmt.Printf("Server: %s\n", server)

	// Make sure the server is up before dialing the socket.
	resp, err := httpc.Client.Get("http://" + server + "/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "server unreachable: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+server+"/ws/camera", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "websocket connect failed: %v\n", err)
		fmt.Fprintln(os.Stderr, "hint: start the camera first: curl -X POST http://"+server+"/camera/start")
		os.Exit(1)
	}
	defer conn.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nbye")
		conn.Close()
		os.Exit(0)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Fprintf(os.Stderr, "feed closed: %v\n", err)
			return
		}

		var msg feedMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "detection" {
			continue
		}

		if msg.Compliance.IsCompliant {
			fmt.Printf("%s ✅ compliant (%s: %s)\n",
				msg.Timestamp,
				msg.Compliance.Gender,
				strings.Join(msg.Compliance.DetectedItems, ", "))
		} else {
			fmt.Printf("%s ❌ missing: %s (%s)\n",
				msg.Timestamp,
				strings.Join(msg.Compliance.MissingItems, ", "),
				msg.Compliance.Gender)
		}
	}
}
