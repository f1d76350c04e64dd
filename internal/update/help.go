package update

const helpText = `# Tokei

A task reminder with a live clock. Each task has a due date and time;
when the earliest one comes due, a reminder fires once.

## Keys

| Key   | Action                      |
|-------|-----------------------------|
| a     | Add a task                  |
| e     | Edit the selected task      |
| d     | Delete the selected task    |
| space | Toggle completion           |
| x     | Export tasks to JSON        |
| /     | Open the command palette    |
| t     | Toggle 12/24-hour clock     |
| ?     | Toggle this help            |
| q     | Quit                        |

## Palette commands

    add <title> <date> <time>
    done <id>
    delete <id>
    export
    import <path>
    clock

Dates are YYYY-MM-DD, times are HH:MM. Task ids accept any unique prefix.
`
