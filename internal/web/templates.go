package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tictactoe-history/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

// boardData feeds the board fragment.
type boardData struct {
	ID    string
	View  domain.View
	Error string
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(c domain.Cell) string { return c.String() },
		"add":        func(a, b int) int { return a + b },
		"mul":        func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(baseTemplate))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(gameTemplate))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const baseTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.board-row { display: flex; }
.board-row form { margin: 0; }
.square { width: 48px; height: 48px; font-size: 24px; font-weight: bold; }
.square.winner-line { background: #ffd54f; }
.moves button.current { font-weight: bolder; }
.alert { color: #b00020; }
</style>
</head><body>{{template "content" .}}</body></html>`

const gameTemplate = `
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div id="live" sse-swap="board">{{template "board" .}}</div>
</div>
<script>
  new EventSource("/game/{{.ID}}/events").addEventListener("draw", function (e) { alert(e.data); });
</script>`

const boardTemplate = `
<div id="board" class="game">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="game-board">
  {{range $r := iter 3}}
  <div class="board-row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{$i}}">
        <button type="submit" class="square{{if $.View.Outcome.Contains $i}} winner-line{{end}}">{{cellSymbol (index $.View.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  </div>
  <div class="game-info">
    <div class="status">{{.View.StatusText}}</div>
    <div class="sort">
      <form hx-post="/game/{{.ID}}/sort" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="order" value="asc">
        <button type="submit"{{if eq .View.Order.String "asc"}} disabled{{end}}>Ascending</button>
      </form>
      <form hx-post="/game/{{.ID}}/sort" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="order" value="desc">
        <button type="submit"{{if eq .View.Order.String "desc"}} disabled{{end}}>Descending</button>
      </form>
    </div>
    <ol class="moves"{{if eq .View.Order.String "desc"}} reversed{{end}}>
    {{range .View.Moves}}
      <li>
        <form hx-post="/game/{{$.ID}}/jump" hx-target="#board" hx-swap="outerHTML" method="post">
          <input type="hidden" name="step" value="{{.Step}}">
          <button type="submit"{{if .Current}} class="current"{{end}}>{{.Label}}</button>
        </form>
      </li>
    {{end}}
    </ol>
  </div>
</div>
`
