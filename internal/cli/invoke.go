package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/naufal/reva/pkg/runtime"
	"github.com/spf13/cobra"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke [prompt]",
	Short: "Send prompts to a running entrypoint",
	Long: `Send a prompt to a running entrypoint and print the streamed events.
With no prompt argument, reads prompts interactively until EOF; the whole
interactive session shares one conversation session id, so the agent can
resume its checkpointed state between turns.`,
	RunE: runInvoke,
}

var (
	invokeURL     string
	invokeSession string
)

func init() {
	invokeCmd.Flags().StringVar(&invokeURL, "url", "http://127.0.0.1:8080", "entrypoint base URL")
	invokeCmd.Flags().StringVar(&invokeSession, "session", "", "session id (default: generated per run)")
	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(cmd *cobra.Command, args []string) error {
	sessionID := invokeSession
	if sessionID == "" {
		sessionID = fmt.Sprintf("user-session-%s", strings.ReplaceAll(uuid.New().String(), "-", ""))
	}

	client := runtime.NewClient(invokeURL, nil)
	ctx := cmd.Context()

	if len(args) > 0 {
		return invokeOnce(ctx, client, sessionID, strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter prompt (CTRL+D to exit): ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return scanner.Err()
		}

		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}

		if err := invokeOnce(ctx, client, sessionID, prompt); err != nil {
			fmt.Fprintf(os.Stderr, "invocation failed: %v\n", err)
		}
	}
}

func invokeOnce(ctx context.Context, client *runtime.Client, sessionID, prompt string) error {
	var received []string
	err := client.Invoke(ctx, sessionID, prompt, func(data string) {
		fmt.Println(data)
		received = append(received, data)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nComplete response: %d events\n", len(received))
	return nil
}
