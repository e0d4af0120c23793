package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/linkout/linkout/internal/logger"
)

// maxRequestBytes bounds a single request line, comment payloads
// included.
const maxRequestBytes = 1024 * 1024

type rpcReq struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

type rpcResp struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Result  map[string]any `json:"result,omitempty"`
	Error   *rpcError      `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeResp(w io.Writer, id any, result map[string]any, err error) {
	resp := rpcResp{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = &rpcError{Code: -32000, Message: err.Error()}
	} else {
		resp.Result = result
	}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		logger.Error("failed to write response", "error", encodeErr)
	}
}

// Serve runs the line-delimited stdio JSON-RPC loop until the input
// stream closes or ctx is cancelled. Malformed lines are skipped; tool
// calls run under a per-call timeout so a stuck browser never wedges
// the server.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req rpcReq
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Debug("skipping malformed request", "error", err)
			continue
		}

		switch req.Method {
		case "tools/list":
			writeResp(out, req.ID, map[string]any{"tools": s.tools}, nil)

		case "tools/call":
			name, _ := req.Params["name"].(string)
			args, _ := req.Params["arguments"].(map[string]any)

			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			result := s.callTool(callCtx, name, args)
			cancel()
			writeResp(out, req.ID, result, nil)

		default:
			writeResp(out, req.ID, nil, errors.New("unknown method: "+req.Method))
		}
	}
	return scanner.Err()
}
