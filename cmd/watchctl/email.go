package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func testEmailCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "test-email",
		Short: "Ask the server to send a test email",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, f.server+"/api/test-email", nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("could not reach server: %w", err)
			}
			defer resp.Body.Close()

			var body struct {
				OK      bool   `json:"ok"`
				Message string `json:"message"`
				Error   string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			if resp.StatusCode == http.StatusOK && body.OK {
				fmt.Println("success:", body.Message)
				return nil
			}
			msg := body.Error
			if msg == "" {
				msg = body.Message
			}
			return fmt.Errorf("test email failed (%d): %s", resp.StatusCode, msg)
		},
	}
}
