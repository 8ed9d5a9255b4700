// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aireport turns a persisted package report into an HTML report
// written by a generative text model.
//
// The flow is:
//
//  1. Find the newest packages_*.json in the reports directory.
//  2. Build a prompt that embeds the report and describes the expected
//     answer (BuildPrompt).
//  3. Send it to a Generator (Gemini REST by default, or an OpenAI
//     compatible chat completions endpoint).
//  4. Strip markdown fences, validate the answer against the embedded JSON
//     schema and decode it (ParseAnalysis).
//  5. Fill the HTML template placeholders (Render) and save the page next
//     to earlier reports as <report stem>_report_<YYYYMMDD_HHMMSS>.html.
//
// Model text is HTML-escaped before it reaches the page. An answer that is
// not valid JSON or does not match the schema fails the run; there is no
// retry.
package aireport
