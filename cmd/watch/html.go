package watch

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>amalgam watch</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 0; }
  header { padding: 8px 16px; border-bottom: 1px solid #ddd; font-size: 14px; color: #444; }
  #graph { padding: 16px; }
  #graph svg { max-width: 100%; height: auto; }
</style>
</head>
<body>
<header>amalgam watch &middot; <span id="status">waiting for first build</span></header>
<div id="graph"></div>
<script type="module">
import { instance } from "https://cdn.jsdelivr.net/npm/@viz-js/viz@3/+esm";

const viz = await instance();
const status = document.getElementById("status");
const target = document.getElementById("graph");
const events = new EventSource("/events");

events.addEventListener("status", (event) => {
  status.textContent = event.data + " (" + new Date().toLocaleTimeString() + ")";
  status.style.color = event.data.startsWith("error:") ? "#d62728" : "";
});
events.addEventListener("graph", (event) => {
  target.replaceChildren(viz.renderSVGElement(event.data));
});
events.onerror = () => { status.textContent = "disconnected"; };
</script>
</body>
</html>
`
