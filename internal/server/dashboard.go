package server

// DashboardHTML is the embedded single-page monitor for Rewind.
// It connects to /ws/monitor and lists the frames sessions handle.
const DashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Rewind Monitor</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace;
    background: #0d1117; color: #c9d1d9; padding: 20px;
  }
  h1 { color: #58a6ff; margin-bottom: 4px; font-size: 1.5em; }
  .subtitle { color: #8b949e; margin-bottom: 20px; font-size: 0.9em; }
  .status-bar {
    display: flex; gap: 20px; margin-bottom: 20px; padding: 12px 16px;
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
  }
  .status-item { display: flex; flex-direction: column; }
  .status-label { font-size: 0.75em; color: #8b949e; text-transform: uppercase; }
  .status-value { font-size: 1.1em; font-weight: 600; }
  .status-value.connected { color: #3fb950; }
  .status-value.disconnected { color: #f85149; }
  .event-log {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    max-height: 600px; overflow-y: auto;
  }
  .event-header {
    padding: 12px 16px; border-bottom: 1px solid #30363d;
    font-weight: 600; color: #58a6ff; position: sticky; top: 0;
    background: #161b22; display: flex; justify-content: space-between;
  }
  .event-row {
    display: grid; grid-template-columns: 120px 160px 80px 80px 1fr;
    padding: 8px 16px; border-bottom: 1px solid #21262d;
    font-size: 0.85em; align-items: center;
  }
  .badge {
    display: inline-block; padding: 2px 8px; border-radius: 12px;
    font-size: 0.75em; font-weight: 600;
  }
  .badge.record { background: #3d1f20; color: #f85149; }
  .badge.play { background: #23312e; color: #3fb950; }
  .empty-state { text-align: center; padding: 60px 20px; color: #8b949e; }
  .name-cell { color: #d2a8ff; }
  .time-cell { color: #8b949e; }
  #clear-btn {
    background: #21262d; color: #c9d1d9; border: 1px solid #30363d;
    padding: 4px 12px; border-radius: 4px; cursor: pointer; font-size: 0.8em;
  }
</style>
</head>
<body>
<h1>Rewind Monitor</h1>
<p class="subtitle">Frames handled by record and play sessions</p>

<div class="status-bar">
  <div class="status-item">
    <span class="status-label">Connection</span>
    <span class="status-value disconnected" id="conn-status">Disconnected</span>
  </div>
  <div class="status-item">
    <span class="status-label">Frames</span>
    <span class="status-value" id="stat-frames">0</span>
  </div>
  <div class="status-item">
    <span class="status-label">Events</span>
    <span class="status-value" id="stat-events">0</span>
  </div>
</div>

<div class="event-log">
  <div class="event-header">
    <span>Live Frames</span>
    <button id="clear-btn" onclick="clearEvents()">Clear</button>
  </div>
  <div id="events"><div class="empty-state"><p>Waiting for sessions on /ws/session...</p></div></div>
</div>

<script>
let frames = 0, events = 0;
const eventsDiv = document.getElementById('events');
const MAX_ROWS = 200;

function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws/monitor');
  const status = document.getElementById('conn-status');
  ws.onopen = () => { status.textContent = 'Connected'; status.className = 'status-value connected'; };
  ws.onclose = () => {
    status.textContent = 'Disconnected'; status.className = 'status-value disconnected';
    setTimeout(connect, 2000);
  };
  ws.onmessage = (e) => addFrame(JSON.parse(e.data));
}

function addFrame(f) {
  const empty = eventsDiv.querySelector('.empty-state');
  if (empty) empty.remove();

  const list = f.events || [];
  frames++; events += list.length;
  document.getElementById('stat-frames').textContent = frames;
  document.getElementById('stat-events').textContent = events;
  if (list.length === 0 && !f.exit) return;

  const row = document.createElement('div');
  row.className = 'event-row';
  const time = new Date(f.time).toLocaleTimeString('en-US', {hour12: false});
  const kinds = list.map(ev => escHtml(ev.kind + ' ' + (ev.code || ev.button || ev.axis || ''))).join(', ');
  row.innerHTML =
    '<span class="time-cell">' + time + '</span>' +
    '<span class="name-cell">' + escHtml(f.name) + '</span>' +
    '<span><span class="badge ' + escHtml(f.mode) + '">' + escHtml(f.mode) + '</span></span>' +
    '<span>' + f.frame + '</span>' +
    '<span>' + kinds + (f.exit ? ' <b>exit</b>' : '') + '</span>';
  eventsDiv.insertBefore(row, eventsDiv.firstChild);
  while (eventsDiv.children.length > MAX_ROWS) eventsDiv.removeChild(eventsDiv.lastChild);
}

function clearEvents() {
  frames = 0; events = 0;
  eventsDiv.innerHTML = '<div class="empty-state"><p>Waiting for sessions on /ws/session...</p></div>';
}

function escHtml(s) {
  const d = document.createElement('div');
  d.textContent = s == null ? '' : String(s);
  return d.innerHTML;
}

connect();
</script>
</body>
</html>`
