package ui

const styles = `
:root {
	--primary: #6366f1;
	--primary-dark: #4f46e5;
	--success: #10b981;
	--warning: #f59e0b;
	--danger: #ef4444;
	--bg: #f8fafc;
	--card-bg: #ffffff;
	--text: #1e293b;
	--text-muted: #64748b;
	--border: #e2e8f0;
}

* {
	box-sizing: border-box;
	margin: 0;
	padding: 0;
}

body {
	font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
	background: var(--bg);
	color: var(--text);
	line-height: 1.6;
}

.navbar {
	background: var(--primary);
	color: white;
	padding: 1rem 2rem;
	display: flex;
	justify-content: space-between;
	align-items: center;
	box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}

.nav-brand {
	font-size: 1.5rem;
	font-weight: bold;
}

.nav-links a {
	color: white;
	text-decoration: none;
	margin-left: 2rem;
	opacity: 0.9;
	transition: opacity 0.2s;
}

.nav-links a:hover {
	opacity: 1;
}

.container {
	max-width: 1200px;
	margin: 0 auto;
	padding: 2rem;
}

.footer {
	text-align: center;
	padding: 2rem;
	color: var(--text-muted);
	border-top: 1px solid var(--border);
	margin-top: 2rem;
}

h1 {
	margin-bottom: 1.5rem;
	color: var(--text);
}

h2 {
	margin-bottom: 1rem;
	color: var(--text);
	font-size: 1.25rem;
}

.stats-grid {
	display: grid;
	grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
	gap: 1.5rem;
	margin-bottom: 2rem;
}

.stat-card {
	background: var(--card-bg);
	border-radius: 12px;
	padding: 1.5rem;
	text-align: center;
	box-shadow: 0 1px 3px rgba(0,0,0,0.1);
	border: 1px solid var(--border);
	transition: transform 0.2s, box-shadow 0.2s;
}

.stat-card:hover {
	transform: translateY(-2px);
	box-shadow: 0 4px 12px rgba(0,0,0,0.1);
}

.stat-value {
	font-size: 2.5rem;
	font-weight: bold;
	color: var(--primary);
}

.stat-label {
	color: var(--text-muted);
	font-size: 0.875rem;
	text-transform: uppercase;
	letter-spacing: 0.05em;
}

.section {
	background: var(--card-bg);
	border-radius: 12px;
	padding: 1.5rem;
	margin-bottom: 1.5rem;
	border: 1px solid var(--border);
}

.actions {
	display: flex;
	gap: 1rem;
	flex-wrap: wrap;
}

button {
	background: var(--primary);
	color: white;
	border: none;
	padding: 0.75rem 1.5rem;
	border-radius: 8px;
	cursor: pointer;
	font-size: 1rem;
	font-weight: 500;
	transition: background 0.2s, transform 0.1s;
}

button:hover {
	background: var(--primary-dark);
}

button:active {
	transform: scale(0.98);
}

button:disabled {
	background: var(--text-muted);
	cursor: not-allowed;
}

button.active {
	background: var(--primary-dark);
	box-shadow: inset 0 2px 4px rgba(0,0,0,0.2);
}

.fonts-grid {
	display: grid;
	grid-template-columns: 300px 1fr;
	gap: 1.5rem;
}

.family-list {
	background: var(--card-bg);
	border-radius: 12px;
	padding: 1rem;
	border: 1px solid var(--border);
}

.family-item {
	padding: 1rem;
	border-radius: 8px;
	cursor: pointer;
	transition: background 0.2s;
	border: 1px solid transparent;
}

.family-item:hover {
	background: var(--bg);
}

.family-item.active {
	background: var(--primary);
	color: white;
	border-color: var(--primary-dark);
}

.family-item.active p {
	color: rgba(255,255,255,0.8);
}

.family-item h3 {
	font-size: 1rem;
	margin-bottom: 0.25rem;
}

.family-item p {
	font-size: 0.875rem;
	color: var(--text-muted);
}

.resolve-panel {
	background: var(--card-bg);
	border-radius: 12px;
	padding: 1.5rem;
	border: 1px solid var(--border);
}

.hint {
	color: var(--text-muted);
	font-style: italic;
}


.refresh-bar {
	color: var(--text-muted);
	font-size: 0.875rem;
	margin-bottom: 1rem;
}

.render-table {
	background: var(--card-bg);
	border-radius: 12px;
	border: 1px solid var(--border);
}

.loading {
	padding: 2rem;
	text-align: center;
	color: var(--text-muted);
}

.loading-spinner {
	display: inline-block;
	width: 16px;
	height: 16px;
	border: 2px solid var(--border);
	border-top-color: var(--primary);
	border-radius: 50%;
	animation: spin 1s linear infinite;
}

@keyframes spin {
	to { transform: rotate(360deg); }
}

.generate-form {
	max-width: 600px;
	background: var(--card-bg);
	border-radius: 12px;
	padding: 2rem;
	border: 1px solid var(--border);
}

.form-group {
	margin-bottom: 1.5rem;
}

.form-group label {
	display: block;
	margin-bottom: 0.5rem;
	font-weight: 500;
}

.form-group input,
.form-group select,
.form-group textarea {
	width: 100%;
	padding: 0.75rem;
	border: 1px solid var(--border);
	border-radius: 8px;
	font-size: 1rem;
	transition: border-color 0.2s, box-shadow 0.2s;
}

.form-group input:focus,
.form-group select:focus,
.form-group textarea:focus {
	outline: none;
	border-color: var(--primary);
	box-shadow: 0 0 0 3px rgba(99, 102, 241, 0.1);
}

.result {
	margin-top: 1rem;
	padding: 1rem;
	border-radius: 8px;
	background: var(--bg);
}

@media (max-width: 768px) {
	.fonts-grid {
		grid-template-columns: 1fr;
	}

	.nav-links a {
		margin-left: 1rem;
	}
}
`
