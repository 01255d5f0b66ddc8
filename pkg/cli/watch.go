package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <clientId>",
	Short: "Stream live REQUEST_START/REQUEST_END events for a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID := args[0]
		wsURL := "ws" + strings.TrimPrefix(rulesAPIAddr, "http") + "/api/observe?clientId=" + url.QueryEscape(clientID)

		conn, resp, err := websocket.DefaultDialer.DialContext(cmd.Context(), wsURL, nil)
		if err != nil {
			if resp != nil {
				return fmt.Errorf("connecting to %s: status %d", wsURL, resp.StatusCode)
			}
			return fmt.Errorf("connecting to %s: %w", wsURL, err)
		}
		defer func() { _ = conn.Close() }()

		fmt.Printf("watching client %q at %s\n", clientID, wsURL)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return nil
			}
			printEvent(data)
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&rulesAPIAddr, "addr", "http://localhost:4280", "base URL of the running proxy")
	rootCmd.AddCommand(watchCmd)
}

func printEvent(data []byte) {
	var ev struct {
		Type      string                 `json:"type"`
		ClientID  string                 `json:"clientId"`
		RequestID string                 `json:"requestId"`
		Payload   map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		fmt.Println(string(data))
		return
	}
	fmt.Printf("[%s] %s request=%s %v\n", ev.ClientID, ev.Type, ev.RequestID, ev.Payload)
}
