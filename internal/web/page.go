// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     web
// Description: Embedded single-page front-end
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package web

import "html/template"

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>EchoVerse</title>
<style>
:root {
  --bg: #0e1116;
  --panel: #12171f;
  --panel-2: #171c25;
  --glass: rgba(255,255,255,.03);
  --border: #232a35;
  --text: #e8eaed;
  --muted: #9aa0a6;
  --accent: #6ea8fe;
}
* { box-sizing: border-box; }
body {
  margin: 0;
  background: var(--bg);
  color: var(--text);
  font: 15px/1.5 -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
}
header {
  padding: 20px 28px;
  border-bottom: 1px solid var(--border);
  display: flex;
  align-items: baseline;
  gap: 14px;
}
header h1 { margin: 0; font-size: 22px; }
main { max-width: 1080px; margin: 0 auto; padding: 20px 28px 60px; }
.panel {
  background: var(--panel);
  border: 1px solid var(--border);
  border-radius: 10px;
  padding: 18px;
  margin-top: 18px;
}
.panel h3 { margin: 0 0 10px; font-size: 15px; }
.grid {
  display: grid;
  grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
  gap: 14px;
}
label { display: block; font-size: 13px; color: var(--muted); }
input[type=text], input[type=url], select, textarea {
  width: 100%;
  margin-top: 4px;
  padding: 8px 10px;
  background: var(--panel-2);
  color: var(--text);
  border: 1px solid var(--border);
  border-radius: 7px;
}
input[type=range] { width: 100%; margin-top: 10px; accent-color: var(--accent); }
textarea { resize: vertical; margin-top: 12px; font-family: inherit; }
.row { display: flex; flex-wrap: wrap; gap: 14px; align-items: end; margin-top: 12px; }
.row label { flex: 1 1 180px; }
button {
  padding: 10px 18px;
  background: var(--accent);
  color: #0b0e13;
  border: 0;
  border-radius: 7px;
  font-weight: 600;
  cursor: pointer;
}
button:disabled { opacity: .5; cursor: default; }
.hint { font-size: 12px; color: var(--muted); margin-top: 4px; }
.hint code { background: var(--glass); padding: 1px 5px; border-radius: 4px; }
.cards { display: grid; grid-template-columns: 1fr 1fr; gap: 18px; }
.cards .panel { margin-top: 18px; }
pre {
  white-space: pre-wrap;
  background: var(--glass);
  border: 1px solid var(--border);
  border-radius: 7px;
  padding: 12px;
  max-height: 320px;
  overflow: auto;
  font: 13px/1.5 inherit;
}
audio { width: 100%; }
a { color: var(--accent); }
ul { margin: 0; padding-left: 20px; }
li { margin: 4px 0; }
.muted { color: var(--muted); }
.error { color: #ff7b72; }
.hidden { display: none; }
@media (max-width: 760px) { .cards { grid-template-columns: 1fr; } }
</style>
</head>
<body>
<header>
  <h1>&#127911; EchoVerse</h1>
  <span class="muted">Tone-aware audiobook generator &middot; v{{.Version}}</span>
</header>
<main>

<section class="panel">
  <h3>Settings</h3>
  <div class="grid">
    <label>Ollama URL
      <input type="url" id="ollamaUrl" value="{{.OllamaURL}}">
    </label>
    <label>Model
      <input type="text" id="model" list="modelList" value="{{.Model}}">
      <datalist id="modelList"></datalist>
      <div class="hint">Models must be pulled locally via <code>ollama pull</code>.</div>
    </label>
    <label>Temperature: <span id="tempVal">{{.Temperature}}</span>
      <input type="range" id="temperature" min="0" max="1.5" step="0.05" value="{{.Temperature}}">
    </label>
    <label>Max tokens: <span id="tokVal">{{.MaxTokens}}</span>
      <input type="range" id="maxTokens" min="64" max="2048" step="32" value="{{.MaxTokens}}">
    </label>
  </div>
</section>

<section class="panel">
  <h3>Story</h3>
  <label>Upload a .txt file
    <input type="file" id="file" accept=".txt">
  </label>
  <textarea id="text" rows="8" placeholder="...or paste your story text here"></textarea>
  <div class="row">
    <label>Voice
      <select id="voice">{{range .Voices}}<option{{if eq . $.Voice}} selected{{end}}>{{.}}</option>{{end}}</select>
    </label>
    <label>Tone
      <select id="tone">{{range .Tones}}<option{{if eq . $.DefaultTone}} selected{{end}}>{{.}}</option>{{end}}<option>Custom...</option></select>
    </label>
    <label id="customToneLabel" class="hidden">Custom tone
      <input type="text" id="customTone" placeholder="e.g. Like a weather report">
    </label>
    <button id="generate">Generate Audiobook</button>
  </div>
  <div id="status" class="muted"></div>
</section>

<section class="cards hidden" id="result">
  <div class="panel"><h3>Original</h3><pre id="original"></pre></div>
  <div class="panel"><h3>Rewritten</h3><pre id="rewritten"></pre></div>
</section>

<section class="panel hidden" id="playback">
  <h3>Audiobook</h3>
  <audio id="player" controls></audio>
  <p><a id="download" download>Download MP3</a></p>
</section>

<section class="panel">
  <h3>Past narrations</h3>
  <ul id="narrations"></ul>
</section>

</main>
<script>
function $(id) { return document.getElementById(id); }

function esc(s) {
  return String(s).replace(/&/g, "&amp;").replace(/</g, "&lt;").replace(/>/g, "&gt;").replace(/"/g, "&quot;");
}

function fmtSize(n) {
  if (n >= 1048576) { return (n / 1048576).toFixed(1) + " MB"; }
  if (n >= 1024) { return (n / 1024).toFixed(1) + " KB"; }
  return n + " B";
}

function setStatus(msg, isError) {
  var el = $("status");
  el.textContent = msg;
  el.className = isError ? "error" : "muted";
}

function setBusy(busy) { $("generate").disabled = busy; }

$("temperature").addEventListener("input", function () { $("tempVal").textContent = this.value; });
$("maxTokens").addEventListener("input", function () { $("tokVal").textContent = this.value; });

$("tone").addEventListener("change", function () {
  $("customToneLabel").classList.toggle("hidden", this.value !== "Custom...");
});

$("file").addEventListener("change", function () {
  var f = this.files[0];
  if (!f) { return; }
  var reader = new FileReader();
  reader.onload = function () { $("text").value = reader.result; };
  reader.readAsText(f);
});

function loadModels() {
  fetch("/api/models?url=" + encodeURIComponent($("ollamaUrl").value))
    .then(function (resp) { return resp.json(); })
    .then(function (names) {
      $("modelList").innerHTML = names.map(function (n) {
        return '<option value="' + esc(n) + '">';
      }).join("");
    })
    .catch(function () {});
}
$("ollamaUrl").addEventListener("change", loadModels);

function loadNarrations() {
  fetch("/api/narrations")
    .then(function (resp) { return resp.json(); })
    .then(function (items) {
      if (!items.length) {
        $("narrations").innerHTML = '<li class="muted">No narrations yet.</li>';
        return;
      }
      $("narrations").innerHTML = items.map(function (it) {
        var label = it.name + " (" + fmtSize(it.size) + ")";
        if (it.meta) { label += " &middot; " + esc(it.meta.tone) + " &middot; " + esc(it.meta.voice); }
        return '<li><a href="/files/' + encodeURIComponent(it.name) + '">' + esc(it.name) + "</a> " +
          '<span class="muted">' + label.slice(it.name.length) + "</span></li>";
      }).join("");
    })
    .catch(function () {});
}

function showResult(originalText, view) {
  $("original").textContent = originalText;
  $("rewritten").textContent = view.rewritten_text;
  $("result").classList.remove("hidden");
  $("player").src = "/files/" + encodeURIComponent(view.audio_file);
  $("download").href = "/files/" + encodeURIComponent(view.audio_file);
  $("playback").classList.remove("hidden");
  setStatus("Done.");
  setBusy(false);
  loadNarrations();
}

function poll(id, originalText) {
  var timer = setInterval(function () {
    fetch("/api/jobs/" + id)
      .then(function (resp) {
        if (!resp.ok) { clearInterval(timer); setBusy(false); return null; }
        return resp.json();
      })
      .then(function (st) {
        if (!st) { return; }
        if (!st.done) { setStatus("Working: " + st.state + "..."); return; }
        clearInterval(timer);
        if (st.error) { setStatus(st.error, true); setBusy(false); }
        else { showResult(originalText, st.result); }
      })
      .catch(function () {});
  }, 750);
}

function watch(id, originalText) {
  var finished = false;
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws?job=" + id);
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "state") {
      setStatus("Working: " + msg.payload.state + "...");
    } else if (msg.type === "done") {
      finished = true;
      showResult(originalText, msg.payload);
    } else if (msg.type === "error") {
      finished = true;
      setStatus(msg.payload.message, true);
      setBusy(false);
    }
  };
  ws.onclose = function () { if (!finished) { poll(id, originalText); } };
  ws.onerror = function () { try { ws.close(); } catch (e) {} };
}

$("generate").addEventListener("click", function () {
  var text = $("text").value;
  if (!text.trim()) { setStatus("Please provide some input text.", true); return; }

  var tone = $("tone").value;
  if (tone === "Custom...") { tone = $("customTone").value.trim() || "Neutral"; }

  var req = {
    text: text,
    tone: tone,
    model: $("model").value.trim(),
    ollama_url: $("ollamaUrl").value.trim(),
    temperature: parseFloat($("temperature").value),
    max_tokens: parseInt($("maxTokens").value, 10),
    voice: $("voice").value,
    lang: "{{.Lang}}"
  };

  setBusy(true);
  setStatus("Submitting...");
  $("result").classList.add("hidden");
  $("playback").classList.add("hidden");

  fetch("/api/generate", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify(req)
  })
    .then(function (resp) {
      return resp.json().then(function (body) {
        if (!resp.ok) { throw new Error(body.error || "request failed"); }
        return body;
      });
    })
    .then(function (body) { watch(body.job_id, text); })
    .catch(function (err) { setStatus(err.message, true); setBusy(false); });
});

loadModels();
loadNarrations();
</script>
</body>
</html>
`
