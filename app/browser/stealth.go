package browser

// stealthScript runs on every new document before any page script. It hides
// the automation flag and fills in the navigator properties a headless
// browser normally leaves empty, which are the first things bot-detection
// scripts probe.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['vi-VN', 'vi', 'en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', {
  get: () => [
    { name: 'Chrome PDF Plugin', filename: 'internal-pdf-viewer' },
    { name: 'Chrome PDF Viewer', filename: 'mhjfbmdgcfjbbpaeojofohoefgiehjai' },
    { name: 'Native Client', filename: 'internal-nacl-plugin' }
  ]
});
window.chrome = window.chrome || { runtime: {} };
const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) =>
  parameters.name === 'notifications'
    ? Promise.resolve({ state: Notification.permission })
    : originalQuery(parameters);
`

// collectLinksJS gathers every anchor href on the page. javascript: and
// fragment-only entries are filtered Go-side.
const collectLinksJS = `Array.from(document.querySelectorAll('a[href]')).map(a => a.getAttribute('href'))`
