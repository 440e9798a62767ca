// Copyright 2025 Portal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	EnterpriseIdIsEmpty           = failed(5002, "Enterprise id is empty")
	ReportIdIsEmpty               = failed(5003, "Report id is empty")

	// Unauthorized 401
	Unauthorized           = failed(4401, "Unauthorized")
	AuthenticationFailed   = failed(4402, "Authentication failed")
	AuthorizationIncorrect = failed(4403, "The authorization format in the request header is incorrect")
	AuthorizationEmpty     = failed(4404, "Authorization is empty")
	InvalidToken           = failed(4405, "Invalid token")
	TokenBeEmpty           = failed(4406, "Token cannot be empty")
	TokenExpired           = failed(4407, "Token is expired")
	TokenFormatIncorrect   = failed(4408, "Token format is incorrect")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")

	InternalError = failed(5000, "Internal error, please contact the administrator")

	UserNotExist     = failed(4041, "User does not exist")
	UserAlreadyExist = failed(4042, "User already exists")
	NotGuildMember   = failed(4044, "User is not a member of the guild")

	OAuthCodeIsRequired           = failed(4501, "Authorization code is required")
	InvalidStateParameter         = failed(4502, "Invalid state parameter")
	TokenExchangeFailed           = failed(4503, "Token exchange failed")
	FailedToObtainUserInformation = failed(4504, "Failed to obtain user information")

	ReportNotFound         = failed(4601, "Dotation report not found")
	DeclarationNotFound    = failed(4602, "Tax declaration not found")
	OperationNotFound      = failed(4603, "Blanchiment operation not found")
	NoBracketMatched       = failed(4604, "No tax bracket matches the amount")
	BulkImportEmpty        = failed(4605, "Bulk import contained no valid rows")
	InvalidDateRange       = failed(4606, "Return date must not precede receive date")
	InvalidPercentage      = failed(4607, "Percentage must be between 0 and 100")
	ExportGenerationFailed = failed(4608, "Failed to generate export document")
)

var (
	Success = success(200, "Request Success")
)

func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
