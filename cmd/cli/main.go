package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/memledger/internal/adapter/http/dto"
)

var (
	baseURL    string
	timeout    time.Duration
	jsonOutput bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "memledger-cli",
		Short:         "MemLedger CLI tool",
		Long:          `A command line interface for interacting with the MemLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the MemLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(accountCmd(), transferCmd(), ledgerCmd())
	return rootCmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var (
		id      string
		balance string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with an opening balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}

			var account dto.AccountResponse
			req := dto.CreateAccountRequest{AccountID: id, Balance: &amount}
			if err := newClient().do(cmd.Context(), http.MethodPost, "/api/v1/accounts", req, &account); err != nil {
				return err
			}

			return printAccount(cmd.OutOrStdout(), account)
		},
	}
	createCmd.Flags().StringVar(&id, "id", "", "Account id")
	createCmd.Flags().StringVar(&balance, "balance", "0", "Opening balance")
	_ = createCmd.MarkFlagRequired("id")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := newClient().do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &account); err != nil {
				return err
			}

			return printAccount(cmd.OutOrStdout(), account)
		},
	}

	var limit, offset int

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts ordered by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))

			var page dto.ListAccountsResponse
			if err := newClient().do(cmd.Context(), http.MethodGet, "/api/v1/accounts?"+query.Encode(), nil, &page); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, page)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tBALANCE\tVERSION")
			for _, a := range page.Accounts {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", truncate(a.AccountID, 32), a.Balance, a.Version)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size (max 100)")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Number of accounts to skip")

	cmd.AddCommand(createCmd, getCmd, listCmd)
	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, amount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			req := dto.CreateTransferRequest{
				SenderAccountID:   from,
				ReceiverAccountID: to,
				TransferAmount:    &value,
			}

			var result dto.TransferResponse
			if err := newClient().do(cmd.Context(), http.MethodPost, "/api/v1/transfers", req, &result); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, result)
			}

			fmt.Fprintf(out, "Transfer %s: %s\n", result.TransferID, result.Message)
			if result.Status != "transferred" {
				return fmt.Errorf("transfer %s did not complete", result.TransferID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Sender account id")
	cmd.Flags().StringVar(&to, "to", "", "Receiver account id")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to move")
	for _, name := range []string{"from", "to", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			err := newClient().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, &report)

			// an inconsistent ledger answers 409 with the report as body
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				if decodeErr := json.Unmarshal(apiErr.Body, &report); decodeErr != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := printJSON(out, report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Status: %s\nTotal balance: %s\nTotal funded: %s\nNegative accounts: %d\n",
					report.Status, report.TotalBalance, report.TotalFunded, report.NegativeAccounts)
			}

			if report.Status != "consistent" {
				return errors.New("consistency check FAILED")
			}
			return nil
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}

// apiError is a non-2xx answer of the API.
type apiError struct {
	Status  int
	Code    string
	Message string
	Body    []byte
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("request failed (%d %s)", e.Status, e.Code)
}

type client struct {
	baseURL string
	http    *http.Client
}

func newClient() *client {
	return &client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{Status: resp.StatusCode, Body: data}
		var errResp dto.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printAccount(w io.Writer, a dto.AccountResponse) error {
	if jsonOutput {
		return printJSON(w, a)
	}

	_, err := fmt.Fprintf(w, "Account: %s\nBalance: %s\nVersion: %d\n", a.AccountID, a.Balance, a.Version)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
