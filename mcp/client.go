package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	clientName    = "geoinsight-agent"
	clientVersion = "0.1"

	// A bad remote URL must not stall the whole request; the remote
	// handshake gets its own short budget before falling back to local.
	remoteDialTimeout = 5 * time.Second
)

// Session is one established tool channel: handshake done, catalog loaded.
// It stays open for the duration of a single agent run and must be closed on
// every exit path.
type Session interface {
	Tools() []Tool
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	Close() error
}

// conn is the frame-level transport under a session.
type conn interface {
	call(ctx context.Context, method string, params any) (json.RawMessage, error)
	close() error
}

type session struct {
	conn  conn
	tools []Tool
}

func (s *session) Tools() []Tool {
	return s.tools
}

// CallTool invokes a remote tool and returns its output as JSON text. A tool
// that failed upstream yields the string "null", not an error; errors here
// mean the transport itself broke.
func (s *session) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	raw, err := s.conn.call(ctx, MethodCallTool, CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}
	var result CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode %s result: %w", name, err)
	}
	if result.IsError {
		return "", fmt.Errorf("tool %s rejected: %s", name, firstText(result.Content))
	}
	return firstText(result.Content), nil
}

func (s *session) Close() error {
	return s.conn.close()
}

func firstText(items []ContentItem) string {
	for _, item := range items {
		if item.Type == "text" {
			return item.Text
		}
	}
	return "null"
}

// Dial opens a tool session. When remoteURL is set the persistent HTTP
// channel is tried first; any failure there falls back silently to spawning
// the local worker. A local failure is terminal.
func Dial(ctx context.Context, remoteURL, localCommand string) (Session, error) {
	if remoteURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, remoteDialTimeout)
		s, err := dialHTTP(dialCtx, remoteURL)
		cancel()
		if err == nil {
			return s, nil
		}
		log.Printf("remote tool endpoint %s unavailable, falling back to local: %v", remoteURL, err)
	}
	return dialStdio(ctx, localCommand)
}

func dialHTTP(ctx context.Context, url string) (Session, error) {
	c := &httpConn{
		client: resty.New().SetTimeout(60 * time.Second),
		url:    url,
	}
	return handshake(ctx, c)
}

func dialStdio(ctx context.Context, command string) (Session, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty tool server command")
	}
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], "stdio")...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start tool server %q: %w", argv[0], err)
	}

	c := &stdioConn{
		pipe: newPipeConn(stdout, stdin),
		cmd:  cmd,
	}
	s, err := handshake(ctx, c)
	if err != nil {
		c.close()
		return nil, err
	}
	return s, nil
}

func handshake(ctx context.Context, c conn) (Session, error) {
	_, err := c.call(ctx, MethodInitialize, InitializeParams{
		ProtocolVersion: protocolVersion,
		ClientInfo:      ClientInfo{Name: clientName, Version: clientVersion},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	raw, err := c.call(ctx, MethodListTools, nil)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	var listed ListToolsResult
	if err := json.Unmarshal(raw, &listed); err != nil {
		return nil, fmt.Errorf("decode tool list: %w", err)
	}
	return &session{conn: c, tools: listed.Tools}, nil
}

// pipeConn frames requests as newline-delimited JSON over a read/write pair.
// Calls are serialized, so responses arrive in request order.
type pipeConn struct {
	mu     sync.Mutex
	nextID int64
	reader *bufio.Reader
	writer io.Writer
}

func newPipeConn(r io.Reader, w io.Writer) *pipeConn {
	return &pipeConn{reader: bufio.NewReaderSize(r, 64*1024), writer: w}
}

func (p *pipeConn) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	req := Request{JSONRPC: jsonrpcVersion, ID: p.nextID, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
		req.Params = raw
	}
	frame, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	if _, err := p.writer.Write(append(frame, '\n')); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	type readResult struct {
		line []byte
		err  error
	}
	ch := make(chan readResult, 1)
	go func() {
		line, err := p.reader.ReadBytes('\n')
		ch <- readResult{line, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("read frame: %w", r.err)
		}
		var resp Response
		if err := json.Unmarshal(r.line, &resp); err != nil {
			return nil, fmt.Errorf("decode frame: %w", err)
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		if resp.ID != req.ID {
			return nil, fmt.Errorf("response id %d does not match request id %d", resp.ID, req.ID)
		}
		return resp.Result, nil
	}
}

func (p *pipeConn) close() error {
	return nil
}

// stdioConn owns a spawned worker process in addition to its pipes. Closing
// releases both; the process is reaped unconditionally.
type stdioConn struct {
	pipe *pipeConn
	cmd  *exec.Cmd
}

func (c *stdioConn) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return c.pipe.call(ctx, method, params)
}

func (c *stdioConn) close() error {
	if closer, ok := c.pipe.writer.(io.Closer); ok {
		closer.Close()
	}
	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		c.cmd.Process.Kill()
		return <-done
	}
}

// httpConn posts one JSON-RPC frame per request to a persistent endpoint.
type httpConn struct {
	mu     sync.Mutex
	nextID int64
	client *resty.Client
	url    string
}

func (c *httpConn) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	req := Request{JSONRPC: jsonrpcVersion, ID: id, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
		req.Params = raw
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("post frame: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("tool endpoint returned status %d", resp.StatusCode())
	}
	var frame Response
	if err := json.Unmarshal(resp.Body(), &frame); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if frame.Error != nil {
		return nil, frame.Error
	}
	return frame.Result, nil
}

func (c *httpConn) close() error {
	return nil
}
