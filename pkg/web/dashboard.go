package web

// dashboardHTML is the single-page operator dashboard. Embedding it
// keeps the binary self-contained; no ./web directory to ship.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Sumo Dashboard</title>
<style>
  body { margin: 0; background: #14171c; color: #d7dce2; font: 14px/1.5 -apple-system, "Segoe UI", sans-serif; }
  header { display: flex; align-items: center; gap: 12px; padding: 14px 20px; background: #1b1f26; border-bottom: 1px solid #2a303a; }
  h1 { font-size: 18px; margin: 0; }
  .pill { padding: 2px 10px; border-radius: 10px; font-size: 12px; background: #512; color: #f88; }
  .pill.ok { background: #152; color: #8f8; }
  main { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; padding: 16px 20px; }
  section { background: #1b1f26; border: 1px solid #2a303a; border-radius: 8px; padding: 14px; }
  section h2 { font-size: 13px; text-transform: uppercase; letter-spacing: 1px; color: #8a93a0; margin: 0 0 10px; }
  #camera { width: 100%; background: #000; border-radius: 4px; min-height: 240px; object-fit: contain; }
  #status dt { color: #8a93a0; float: left; clear: left; width: 90px; }
  #status dd { margin: 0 0 4px 100px; word-break: break-all; }
  .drivepad { display: grid; grid-template-columns: repeat(3, 56px); gap: 6px; justify-content: center; margin-bottom: 12px; }
  .drivepad button, .actions button, #tools button {
    background: #2a303a; color: #d7dce2; border: 1px solid #3a414d; border-radius: 6px;
    padding: 8px 10px; cursor: pointer; font-size: 13px;
  }
  .drivepad button:hover, .actions button:hover, #tools button:hover { background: #343b47; }
  .actions { display: flex; flex-wrap: wrap; gap: 6px; }
  #tools { display: flex; flex-wrap: wrap; gap: 6px; }
  #log { height: 220px; overflow-y: auto; font-family: ui-monospace, monospace; font-size: 12px; }
  #log div { padding: 1px 0; border-bottom: 1px solid #21262e; }
  #log .error { color: #f88; }
  #log .tool { color: #8cf; }
  #log .time { color: #596273; margin-right: 6px; }
</style>
</head>
<body>
<header>
  <h1>🤖 Jumping Sumo</h1>
  <span id="conn" class="pill">disconnected</span>
  <span id="addr"></span>
</header>
<main>
  <section>
    <h2>Camera</h2>
    <img id="camera" alt="camera stream">
  </section>
  <section>
    <h2>Status</h2>
    <dl id="status">
      <dt>Session</dt><dd id="session">–</dd>
      <dt>Uptime</dt><dd id="uptime">–</dd>
      <dt>Last tool</dt><dd id="lasttool">–</dd>
      <dt>Result</dt><dd id="lastresult">–</dd>
    </dl>
  </section>
  <section>
    <h2>Drive</h2>
    <div class="drivepad">
      <span></span><button data-move="60,0">▲</button><span></span>
      <button data-move="0,-50">◀</button><button data-move="0,0">■</button><button data-move="0,50">▶</button>
      <span></span><button data-move="-60,0">▼</button><span></span>
    </div>
    <div class="actions">
      <button data-tool="jump_robot" data-args="{&quot;jump_type&quot;:&quot;high&quot;}">⬆️ High jump</button>
      <button data-tool="jump_robot" data-args="{&quot;jump_type&quot;:&quot;long&quot;}">🦘 Long jump</button>
      <button data-tool="load_jump">🔧 Load</button>
      <button data-tool="cancel_jump">↩️ Cancel</button>
      <button data-tool="stop_jump">🛑 Stop</button>
      <button data-tool="capture_photo">📸 Photo</button>
    </div>
  </section>
  <section>
    <h2>Tools</h2>
    <div id="tools"></div>
  </section>
  <section style="grid-column: 1 / -1">
    <h2>Activity</h2>
    <div id="log"></div>
  </section>
</main>
<script>
(function () {
  "use strict";
  var wsBase = (location.protocol === "https:" ? "wss://" : "ws://") + location.host;

  function el(id) { return document.getElementById(id); }

  function trigger(name, args) {
    fetch("/api/tools/" + name, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ args: args || {} })
    });
  }

  // Status stream
  var statusWS = new WebSocket(wsBase + "/ws/status");
  statusWS.onmessage = function (e) {
    var st = JSON.parse(e.data);
    var pill = el("conn");
    pill.textContent = st.connected ? "connected" : (st.active ? "link lost" : "disconnected");
    pill.className = st.connected ? "pill ok" : "pill";
    el("addr").textContent = st.addr || "";
    el("session").textContent = st.session_id || "–";
    el("uptime").textContent = st.uptime || "–";
    el("lasttool").textContent = st.last_tool || "–";
    el("lastresult").textContent = st.last_result || "–";
  };

  // Activity stream
  var logWS = new WebSocket(wsBase + "/ws/logs");
  logWS.onmessage = function (e) {
    var entry = JSON.parse(e.data);
    var line = document.createElement("div");
    line.className = entry.type;
    var time = document.createElement("span");
    time.className = "time";
    time.textContent = entry.time;
    line.appendChild(time);
    line.appendChild(document.createTextNode(entry.message));
    var log = el("log");
    log.insertBefore(line, log.firstChild);
    while (log.childNodes.length > 200) log.removeChild(log.lastChild);
  };

  // Camera stream: binary JPEG frames
  var camWS = new WebSocket(wsBase + "/ws/camera");
  camWS.binaryType = "blob";
  var lastURL = null;
  camWS.onmessage = function (e) {
    var url = URL.createObjectURL(e.data);
    el("camera").src = url;
    if (lastURL) URL.revokeObjectURL(lastURL);
    lastURL = url;
  };

  // Manual trigger catalog
  fetch("/api/tools").then(function (r) { return r.json(); }).then(function (tools) {
    (tools || []).forEach(function (tool) {
      var b = document.createElement("button");
      b.textContent = tool.name;
      b.title = tool.description;
      b.onclick = function () { trigger(tool.name, {}); };
      el("tools").appendChild(b);
    });
  });

  // Drive pad and action buttons
  document.querySelectorAll("[data-move]").forEach(function (b) {
    b.onclick = function () {
      var parts = b.getAttribute("data-move").split(",");
      trigger("move_robot", { speed: parseInt(parts[0], 10), turn: parseInt(parts[1], 10), duration: 0.5 });
    };
  });
  document.querySelectorAll("[data-tool]").forEach(function (b) {
    b.onclick = function () {
      var args = b.getAttribute("data-args");
      trigger(b.getAttribute("data-tool"), args ? JSON.parse(args) : {});
    };
  });
})();
</script>
</body>
</html>
`
