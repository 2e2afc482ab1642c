package compositor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/civicengine/api/internal/model"
)

// BuildCompositionPage bundles the payload into the self-contained
// HTML composition. The page animates a canvas timeline (intro card,
// one card per policy, consensus stat, outro) and records it through
// MediaRecorder, publishing progress on window.__render.
func BuildCompositionPage(payload *model.RenderJobPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize payload: %w", err)
	}

	var buf bytes.Buffer
	if err := compositionTmpl.Execute(&buf, string(data)); err != nil {
		return "", fmt.Errorf("failed to render composition template: %w", err)
	}
	return buf.String(), nil
}

var compositionTmpl = template.Must(template.New("composition").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
  html, body { margin: 0; background: #0b1437; }
  canvas { display: block; }
</style>
</head>
<body>
<canvas id="c" width="1080" height="1920"></canvas>
<script>
const payload = JSON.parse({{.}});
window.__render = { progress: 0, done: false, error: "", video: "" };

const SECONDS_PER_CARD = 1.5;
const INTRO_SECONDS = 2;
const OUTRO_SECONDS = 2;
const FPS = 30;

const canvas = document.getElementById('c');
const ctx = canvas.getContext('2d');

function drawFrame(t, total) {
  ctx.fillStyle = '#0b1437';
  ctx.fillRect(0, 0, canvas.width, canvas.height);
  ctx.fillStyle = '#ffffff';
  ctx.textAlign = 'center';

  if (t < INTRO_SECONDS) {
    const fade = Math.min(1, t / 0.5);
    ctx.globalAlpha = fade;
    ctx.font = 'bold 72px sans-serif';
    ctx.fillText(payload.displayName, canvas.width / 2, 860);
    ctx.font = '48px sans-serif';
    ctx.fillStyle = '#8ea2ff';
    ctx.fillText(payload.label, canvas.width / 2, 960);
    ctx.globalAlpha = 1;
    return;
  }

  const cardTime = t - INTRO_SECONDS;
  const cardIndex = Math.floor(cardTime / SECONDS_PER_CARD);
  if (cardIndex < payload.policies.length) {
    const p = payload.policies[cardIndex];
    ctx.font = '40px sans-serif';
    ctx.fillStyle = '#8ea2ff';
    ctx.fillText(p.category.toUpperCase(), canvas.width / 2, 700);
    ctx.font = 'bold 56px sans-serif';
    ctx.fillStyle = '#ffffff';
    wrapText(p.title, canvas.width / 2, 820, 900, 70);
    ctx.font = 'bold 120px sans-serif';
    ctx.fillStyle = '#4ade80';
    ctx.fillText(p.averageSupport + '%', canvas.width / 2, 1200);
    ctx.font = '40px sans-serif';
    ctx.fillStyle = '#cbd5f5';
    ctx.fillText('of Americans agree', canvas.width / 2, 1280);
    return;
  }

  // Outro: consensus stat and URL.
  ctx.font = 'bold 140px sans-serif';
  ctx.fillStyle = '#4ade80';
  ctx.fillText(payload.avgConsensusSupport + '%', canvas.width / 2, 900);
  ctx.font = '48px sans-serif';
  ctx.fillStyle = '#ffffff';
  ctx.fillText('average agreement on my picks', canvas.width / 2, 1000);
  if (payload.urlText) {
    ctx.font = 'bold 44px sans-serif';
    ctx.fillStyle = '#8ea2ff';
    ctx.fillText(payload.urlText, canvas.width / 2, 1700);
  }
}

function wrapText(text, x, y, maxWidth, lineHeight) {
  const words = text.split(' ');
  let line = '';
  for (const word of words) {
    const probe = line ? line + ' ' + word : word;
    if (ctx.measureText(probe).width > maxWidth && line) {
      ctx.fillText(line, x, y);
      line = word;
      y += lineHeight;
    } else {
      line = probe;
    }
  }
  ctx.fillText(line, x, y);
}

async function record() {
  const total = INTRO_SECONDS + payload.policies.length * SECONDS_PER_CARD + OUTRO_SECONDS;
  const stream = canvas.captureStream(FPS);
  const recorder = new MediaRecorder(stream, { mimeType: 'video/webm' });
  const chunks = [];
  recorder.ondataavailable = e => { if (e.data.size) chunks.push(e.data); };

  const finished = new Promise(resolve => { recorder.onstop = resolve; });
  recorder.start(250);

  const start = performance.now();
  await new Promise(resolve => {
    function tick() {
      const t = (performance.now() - start) / 1000;
      if (t >= total) { resolve(); return; }
      drawFrame(t, total);
      window.__render.progress = t / total;
      requestAnimationFrame(tick);
    }
    tick();
  });

  recorder.stop();
  await finished;

  const blob = new Blob(chunks, { type: 'video/webm' });
  const buf = await blob.arrayBuffer();
  let binary = '';
  const bytes = new Uint8Array(buf);
  for (let i = 0; i < bytes.length; i += 0x8000) {
    binary += String.fromCharCode.apply(null, bytes.subarray(i, i + 0x8000));
  }
  window.__render.video = btoa(binary);
  window.__render.progress = 1;
  window.__render.done = true;
}

record().catch(err => { window.__render.error = String(err); });
</script>
</body>
</html>`))
