package main

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

type queryRequest struct {
	QueryName string                 `json:"queryName"`
	Params    map[string]interface{} `json:"params"`
	Catalog   string                 `json:"catalog,omitempty"`
}

type queryResponse struct {
	Rows  []map[string]interface{} `json:"rows"`
	Error string                   `json:"error,omitempty"`
}

func newServeCommand(flags *demoFlags) *cobra.Command {
	var api string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose query dispatch over a small HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			executor, cleanup, err := newExecutor(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			mux := http.NewServeMux()
			mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					http.Error(w, "only POST is supported", http.StatusMethodNotAllowed)
					return
				}

				request := queryRequest{}
				if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}

				builder := executor.Query(request.QueryName).Params(request.Params)
				if request.Catalog != "" {
					builder.Catalog(request.Catalog)
				}

				response := queryResponse{Rows: []map[string]interface{}{}}
				status := http.StatusOK
				if err := builder.ExecuteList(r.Context(), &response.Rows); err != nil {
					response.Error = err.Error()
					status = http.StatusBadRequest
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				json.NewEncoder(w).Encode(response)
			})

			listener, err := net.Listen("tcp", api)
			if err != nil {
				return err
			}

			go http.Serve(listener, mux)

			ch := make(chan os.Signal, 32)
			signal.Notify(ch, unix.SIGPWR)
			signal.Notify(ch, unix.SIGINT)
			signal.Notify(ch, unix.SIGQUIT)
			signal.Notify(ch, unix.SIGTERM)

			<-ch

			listener.Close()

			return nil
		},
	}

	cmd.Flags().StringVarP(&api, "api", "a", "127.0.0.1:8080", "address used to expose the query API")

	return cmd
}
