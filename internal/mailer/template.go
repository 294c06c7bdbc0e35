package mailer

import "fmt"

// verifyEmailTemplate renders the verification email body.
func verifyEmailTemplate(name, verifyLink string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html dir="ltr" lang="en">
  <head>
    <meta content="text/html; charset=UTF-8" http-equiv="Content-Type" />
  </head>
  <body style="background-color:#f6f9fc;font-family:'Open Sans','Helvetica Neue',Helvetica,Arial,sans-serif">
    <table align="center" width="100%%" border="0" cellpadding="0" cellspacing="0" role="presentation"
      style="max-width:37.5em;background-color:#ffffff;border:1px solid #f0f0f0;padding:45px">
      <tbody>
        <tr>
          <td>
            <p style="font-size:16px;line-height:26px;color:#404040">Hi %s,</p>
            <p style="font-size:16px;line-height:26px;color:#404040">
              Thanks for signing up! Please confirm your email address by clicking the button below:
            </p>
            <a href="%s" target="_blank"
              style="line-height:100%%;text-decoration:none;display:block;max-width:100%%;
              background-color:#2563eb;border-radius:4px;color:#fff;font-size:15px;
              text-align:center;width:210px;padding:14px 7px">
              Verify Email
            </a>
            <p style="font-size:16px;line-height:26px;color:#404040">
              If you didn&#8217;t create an account, you can safely ignore this message.
            </p>
          </td>
        </tr>
      </tbody>
    </table>
  </body>
</html>`, name, verifyLink)
}
