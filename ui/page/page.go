package page

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func static(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

// HomePage is the landing screen with a single entry point into the planner.
func HomePage() templ.Component {
	return static(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>howobot</title>
<link rel="stylesheet" href="/static/css/app.css">
</head>
<body>
<main class="home">
  <h1>howobot</h1>
  <p>Your study day, planned the evening before.</p>
  <p><a class="btn" href="/app">Open planner</a></p>
</main>
</body>
</html>
`)
}

// AppPage is the planner shell. All rendering happens client-side against
// the JSON API; this page only provides the containers and the script.
func AppPage() templ.Component {
	return static(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>howobot — planner</title>
<link rel="stylesheet" href="/static/css/app.css">
</head>
<body>
<header class="topbar">
  <h1>howobot</h1>
  <nav>
    <button data-view="dashboard">Dashboard</button>
    <button data-view="schedule">Schedule</button>
    <button data-view="calendar">Calendar</button>
  </nav>
  <input type="date" id="day-picker">
</header>
<main>
  <section id="view-dashboard">
    <h2 id="day-label"></h2>
    <div class="stats">
      <div class="card"><span>Planned</span><strong id="stat-planned"></strong></div>
      <div class="card"><span>Done</span><strong id="stat-done"></strong></div>
      <div class="card"><span>Left</span><strong id="stat-left"></strong></div>
      <div class="card"><span>Finish</span><strong id="stat-eta"></strong></div>
    </div>
    <ul id="task-list"></ul>
    <form id="add-task">
      <input id="add-title" placeholder="New task" required>
      <input id="add-minutes" type="number" min="0" value="30">
      <button type="submit">Add</button>
    </form>
  </section>
  <section id="view-schedule" hidden>
    <h2>Weekly schedule</h2>
    <div id="template-editor"></div>
  </section>
  <section id="view-calendar" hidden>
    <h2>Calendar</h2>
    <p>Pick a date above to review or plan any day.</p>
  </section>
</main>
<script type="module" src="/static/js/app.js"></script>
</body>
</html>
`)
}
