package server

import "net/http"

// home serves a short landing page describing the API surface.
func home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Blog Backend</title>
  <style>
    body { font-family: Arial, sans-serif; max-width: 720px; margin: 0 auto; padding: 20px; }
    code { background: #f1f1f1; padding: 2px 6px; border-radius: 3px; }
    li { line-height: 1.8; }
  </style>
</head>
<body>
  <h1>Blog Backend</h1>
  <p>REST API with cookie and bearer-token authentication.</p>
  <h2>Authentication</h2>
  <ul>
    <li><code>POST /api/auth/register</code> — create an account</li>
    <li><code>POST /api/auth/login</code> — sign in, sets <code>auth_token</code> (24h) and <code>refresh_token</code> (7d) cookies</li>
    <li><code>POST /api/auth/logout</code> — sign out, clears cookies</li>
    <li><code>POST /api/auth/refresh</code> — exchange the refresh token for a new session</li>
    <li><code>GET /api/auth/verify-email?token=...</code> — confirm the email address</li>
  </ul>
  <h2>Profile</h2>
  <ul>
    <li><code>GET /api/users/me</code> — current profile</li>
    <li><code>PUT /api/users/me</code> — update name and email</li>
    <li><code>PUT /api/users/me/password</code> — change password</li>
  </ul>
  <h2>Posts</h2>
  <ul>
    <li><code>GET /api/posts</code> — all posts (public)</li>
    <li><code>GET /api/posts/{id}</code> — one post (public)</li>
    <li><code>POST /api/posts</code> — create (authenticated)</li>
    <li><code>GET /api/posts/my</code> — your posts (authenticated)</li>
    <li><code>PUT /api/posts/{id}</code>, <code>DELETE /api/posts/{id}</code> — owner only</li>
  </ul>
  <p>Authenticate with the <code>auth_token</code> cookie or an <code>Authorization: Bearer</code> header.</p>
</body>
</html>`))
}
