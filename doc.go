/* Package main: a tiny line numbered BASIC

This is an interpreter for a small BASIC dialect, designed so that its whole
state fits in a few fixed size buffers: the program, 26 variables, and one
expression's worth of tokens. Nothing grows while a program runs.

Lines typed with a leading number are stored as the program; anything else
is executed immediately:

	> 10 A=1
	> 20 PRINT A
	> 30 A=A+1
	> 40 IF A<4 THEN GOTO 20
	> 50 END
	> RUN
	1
	2
	3

Program Storage

The program lives in an arena: one byte buffer holding every line back to
back, sorted by line number. Each line is stored as a 2 byte little endian
number, the line text, and a NUL terminator. Storing a line shifts every
following line over to make room, and deleting one shifts them back, so the
arena never fragments and its free space is always one run at the end. See
internal/arena.

Expressions

Expressions are 32 bit signed integer arithmetic over literals, the
variables A through Z, and the operators:

	!     bitwise not (unary), along with unary + and -
	* / % multiply, truncating divide, remainder
	+ -   add, subtract
	& | ^ bitwise and, or, xor

Operators of equal rank apply left to right, and parentheses group. Literals
may be decimal, hexadecimal (0x1F), binary (0b101), or octal (017).

Evaluation happens in passes over a fixed capacity token buffer: tokenize,
fold unary operators, rank operators by precedence and parenthesis depth,
then repeatedly apply the highest ranked operator until one value remains.
Variables are read as they are tokenized, so "A = A + 1" sees the value of A
from before the statement. See internal/expr.

Statements

	[LET] V = expr              assign a variable
	PRINT item [: item]... [:]  write strings and values; a trailing : omits the line feed
	INPUT V                     read an expression from the user
	CHAR V                      read one keypress
	GOTO expr                   jump
	IF expr cmp expr THEN stmt  execute stmt if the comparison, one of = <> < <= > >=, holds
	REM ...                     remark
	CLEAR                       clear the screen
	END                         stop running
	RUN LIST NEW MEMORY         manage the program; not available while running
	SAVE name, LOAD name        persist the program in a library

Keywords are case insensitive and must be followed by a blank or the end of
the statement.

Running

The interpreter is idle until RUN, or an immediate GOTO, starts it running
at some line. Each statement then either falls through to the following
line, jumps, or halts. Running off the end of the program, or END, halts
quietly; any error halts and is reported along with its line. When attached
to a terminal, an interrupt breaks out of a running program.
*/
package main
