package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/gnestor/vdom/dispatch"
	"github.com/gnestor/vdom/examples/counter"
	"github.com/gnestor/vdom/handlers"
	"github.com/gnestor/vdom/internal/ctxlog"
	"github.com/gnestor/vdom/runtime"
	"github.com/gnestor/vdom/transport/ws"
	"github.com/gnestor/vdom/wire"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo counter over a websocket frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := chi.NewRouter()
			r.Use(middleware.Recoverer)
			r.Get("/", serveIndex)
			r.Get("/ws", serveSession)
			slog.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, r)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8077", "listen address")
	return cmd
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// serveSession runs one full backend loop per websocket connection: a
// registry and serializer of its own, a mounted counter component, and a
// dispatcher draining the connection's events until it closes.
func serveSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	logger := slog.With("remote", conn.RemoteAddr().String())
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(r.Context(), logger))
	defer cancel()

	transport := ws.NewTransport(conn, logger)
	defer transport.Close()

	reg := handlers.NewRegistry()
	ser := wire.NewSerializer(reg)

	c := counter.New("Count")
	c.SetLogger(logger)
	sess, err := runtime.Mount(c, ser, transport)
	if err != nil {
		logger.Error("mounting counter", "error", err)
		return
	}
	defer sess.Release()
	logger.Info("session started", "handle", sess.Handle())

	dispatcher := dispatch.NewDispatcher(reg, logger)
	go dispatcher.Serve(ctx, transport.Events())

	if err := transport.ReadEvents(ctx); err != nil && ctx.Err() == nil {
		logger.Warn("session ended", "error", err)
	}
}

// indexPage is a minimal untrusted-renderer stand-in: it draws the wire
// envelope with plain DOM calls and reports interactions back as event
// messages. Real frontends reconcile rather than rebuild.
const indexPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>vdomd</title></head>
<body>
<div id="root"></div>
<script>
const handles = {};
const sock = new WebSocket("ws://" + location.host + "/ws");

function build(tree) {
  if (typeof tree === "string") return document.createTextNode(tree);
  if (tree.import) {
    const ph = document.createElement("span");
    ph.textContent = "[" + tree.import.package + "]";
    return ph;
  }
  const el = document.createElement(tree.tagName);
  for (const [key, value] of Object.entries(tree.attributes || {})) {
    if (key.startsWith("on")) {
      const kind = key.slice(2).toLowerCase();
      el.addEventListener(kind, (ev) => sock.send(JSON.stringify({
        handlerId: value,
        eventKind: kind,
        payload: { targetValue: ev.target.value ?? null },
      })));
    } else {
      el.setAttribute(key, value);
    }
  }
  for (const child of tree.children || []) el.appendChild(build(child));
  return el;
}

sock.onmessage = (frame) => {
  const msg = JSON.parse(frame.data);
  let mount = handles[msg.handle];
  if (!mount) {
    mount = document.createElement("div");
    handles[msg.handle] = mount;
    document.getElementById("root").appendChild(mount);
  }
  mount.replaceChildren(build(msg.tree));
};
</script>
</body>
</html>
`
