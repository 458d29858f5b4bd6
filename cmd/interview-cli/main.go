package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/infra/httpclient"
)

type sessionResponse struct {
	ProductName        string   `json:"product_name"`
	PersonaName        string   `json:"persona_name"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

type answerResponse struct {
	FinalAnswer string `json:"final_answer"`
	Documents   []struct {
		Text    string `json:"text"`
		Product string `json:"product"`
	} `json:"documents"`
	Debug struct {
		RunID         string   `json:"run_id"`
		SearchQueries []string `json:"search_queries"`
	} `json:"debug"`
}

func main() {
	var (
		serverURL   string
		product     string
		showSources bool
	)

	rootCmd := &cobra.Command{
		Use:   "interview-cli",
		Short: "Interactive interview session against a synthetic persona",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterview(serverURL, product, showSources)
		},
	}
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:9020", "orchestrator base URL")
	rootCmd.Flags().StringVar(&product, "product", "Product Management", "product the persona studies")
	rootCmd.Flags().BoolVar(&showSources, "sources", false, "print supporting documents after each answer")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInterview(serverURL, product string, showSources bool) error {
	client := httpclient.NewPooledClient(120 * time.Second)

	session, err := startSession(client, serverURL, product)
	if err != nil {
		return err
	}

	fmt.Printf("Interviewing %s (persona for %q). Type 'exit' to quit.\n\n", session.PersonaName, session.ProductName)
	if len(session.SuggestedQuestions) > 0 {
		fmt.Println("Suggested questions:")
		for i, q := range session.SuggestedQuestions {
			fmt.Printf("  %2d. %s\n", i+1, q)
		}
		fmt.Println()
	}

	var history []domain.ChatTurn
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := askQuestion(client, serverURL, product, question, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Printf("\n%s> %s\n\n", session.PersonaName, answer.FinalAnswer)
		if showSources && len(answer.Documents) > 0 {
			fmt.Println("sources:")
			for _, doc := range answer.Documents {
				fmt.Printf("  - %s\n", doc.Text)
			}
			fmt.Println()
		}

		history = append(history,
			domain.ChatTurn{Role: domain.RoleUser, Content: question},
			domain.ChatTurn{Role: domain.RoleAssistant, Content: answer.FinalAnswer},
		)
	}
	return scanner.Err()
}

func startSession(client *http.Client, serverURL, product string) (*sessionResponse, error) {
	body, _ := json.Marshal(map[string]string{"product_name": product})
	var session sessionResponse
	if err := postJSON(client, serverURL+"/v1/persona/session", body, &session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &session, nil
}

func askQuestion(client *http.Client, serverURL, product, question string, history []domain.ChatTurn) (*answerResponse, error) {
	body, err := json.Marshal(map[string]any{
		"question":     question,
		"chat_history": history,
		"product_name": product,
	})
	if err != nil {
		return nil, err
	}
	var answer answerResponse
	if err := postJSON(client, serverURL+"/v1/persona/answer", body, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func postJSON(client *http.Client, url string, body []byte, out any) error {
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return json.Unmarshal(data, out)
}
