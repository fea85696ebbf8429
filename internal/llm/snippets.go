package llm

// MathWithMarkdown tells the model how math and markdown are rendered.
const MathWithMarkdown = `LaTeX notation should be used for math expressions. LaTeX math delimiters, which are @@...@@ for in-line math, and $$...$$ for displayed equations must be used. response text will be processed as markdown _before_ LaTeX is interpreted, make sure to escape any markdown special characters such as * or ~ as \* or \~.

Responses can use markdown formatting. Remember that in markdown a single newline is a space, and two newlines is a paragraph break. To create a line break, remember to add two spaces at the end of a line.`
