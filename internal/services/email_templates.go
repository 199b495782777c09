package services

const welcomeEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f8f9fa; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #e9ecef; border-radius: 8px; }
.header { font-size: 24px; font-weight: bold; color: #1d3557; margin-bottom: 15px; }
.content { padding: 20px; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Welcome, %s!</h1>
    </div>
    <div class="content">
      <p>Your account has been created. You can sign in right away and start browsing the catalog.</p>
      <p>If you did not create this account, please contact our support team.</p>
    </div>
    <div class="footer">
      © %d %s. All rights reserved.
    </div>
  </div>
</body>
</html>`

const newPasswordEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f8f9fa; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #e9ecef; border-radius: 8px; }
.header { font-size: 24px; font-weight: bold; color: #1d3557; margin-bottom: 15px; }
.content { padding: 30px; text-align: center; }
.code { font-size: 24px; font-weight: bold; letter-spacing: 4px; color: #1d3557; background-color: #f1f3f5; padding: 15px 20px; border-radius: 5px; display: inline-block; margin: 20px 0; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Your New Password</h1>
    </div>
    <div class="content">
      <p>A password reset was requested for your account. Use the temporary password below to sign in, then change it immediately.</p>
      <div class="code">%s</div>
      <p>If you did not request this reset, please contact our support team.</p>
    </div>
    <div class="footer">
      © %d %s. All rights reserved.
    </div>
  </div>
</body>
</html>`
